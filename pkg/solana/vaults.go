package solana

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// Platform program address owning the fee routing vaults. Overridable for
// devnet via PLATFORM_PROGRAM_ID.
var defaultProgramID = solana.MustPublicKeyFromBase58("GnYrYW9KPtUws8yQ19ftnuSQGWJotaLKwesS1VoRsFoF")

// Vault namespace seeds. Each routing mode that parks fees in a
// platform-owned sub-account derives it from one of these namespaces plus
// the mint, so re-deriving for the same mint always lands on the same
// address.
var (
	SeedVolume       = []byte("volume")
	SeedMarketMaking = []byte("mm")
	SeedRewards      = []byte("rewards")
)

func programID() solana.PublicKey {
	if raw := os.Getenv("PLATFORM_PROGRAM_ID"); raw != "" {
		if pk, err := solana.PublicKeyFromBase58(raw); err == nil {
			return pk
		}
	}
	return defaultProgramID
}

func findVault(seeds [][]byte) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress(seeds, programID())
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find vault PDA: %w", err)
	}
	return address, nil
}

// GetVolumeVault derives the volume vault for a mint.
func GetVolumeVault(mint solana.PublicKey) (solana.PublicKey, error) {
	return findVault([][]byte{SeedVolume, mint[:]})
}

// GetMarketMakingVault derives the market making vault for a mint.
func GetMarketMakingVault(mint solana.PublicKey) (solana.PublicKey, error) {
	return findVault([][]byte{SeedMarketMaking, mint[:]})
}

// GetRewardsVault derives the rewards vault for a mint and audience
// ("holders" or "stakers").
func GetRewardsVault(mint solana.PublicKey, audience string) (solana.PublicKey, error) {
	return findVault([][]byte{SeedRewards, []byte(audience), mint[:]})
}
