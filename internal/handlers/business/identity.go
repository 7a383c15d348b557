package business

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"launchcontrol/internal/models"

	"gorm.io/gorm"
)

// NormalizeIdentity reduces a name+ticker pair to its canonical collision
// keys: name lowercase-trimmed, ticker uppercase-trimmed. "Doge Killer" /
// "dgkl" and "doge killer" / "DGKL" map to the same pair.
func NormalizeIdentity(name, ticker string) (nameKey, tickerKey string) {
	nameKey = strings.ToLower(strings.TrimSpace(name))
	tickerKey = strings.ToUpper(strings.TrimSpace(ticker))
	return nameKey, tickerKey
}

// IdentityHash returns the sha256 digest of the normalized pair, stored for
// audit. Uniqueness is enforced on the pair itself, never on this hash.
func IdentityHash(name, ticker string) string {
	nameKey, tickerKey := NormalizeIdentity(name, ticker)
	sum := sha256.Sum256([]byte(nameKey + ":" + tickerKey))
	return hex.EncodeToString(sum[:])
}

// ReserveIdentity registers a name+ticker pair for a mint. The composite
// unique index on (name_key, ticker_key) makes the insert the authority:
// of two concurrent reservations for the same pair exactly one insert
// lands, the other surfaces as IdentityTakenError with the winning mint.
func ReserveIdentity(db *gorm.DB, name, ticker, mint, creator string) error {
	nameKey, tickerKey := NormalizeIdentity(name, ticker)

	identity := models.Identity{
		NameKey:      nameKey,
		TickerKey:    tickerKey,
		IdentityHash: IdentityHash(name, ticker),
		Mint:         mint,
		Creator:      creator,
	}

	if err := db.Create(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			taken := &IdentityTakenError{Name: name, Ticker: ticker}
			var existing models.Identity
			if lookupErr := db.Where("name_key = ? AND ticker_key = ?", nameKey, tickerKey).
				First(&existing).Error; lookupErr == nil {
				taken.ExistingMint = existing.Mint
			}
			return taken
		}
		return err
	}
	return nil
}

// CheckIdentity is the race-prone pre-flight lookup for UI checks. An
// available result carries no guarantee that a later ReserveIdentity will
// succeed; reservation is the authority.
func CheckIdentity(db *gorm.DB, name, ticker string) (available bool, existingMint string, err error) {
	nameKey, tickerKey := NormalizeIdentity(name, ticker)

	var existing models.Identity
	err = db.Where("name_key = ? AND ticker_key = ?", nameKey, tickerKey).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return false, existing.Mint, nil
}
