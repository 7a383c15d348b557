package business

import (
	"fmt"

	"launchcontrol/internal/models"
	platformsol "launchcontrol/pkg/solana"

	"github.com/gagliardetto/solana-go"
	"gorm.io/gorm"
)

// Wire names of the routing modes, as stored in routing_config.mode.
const (
	ModeNameLP            = "lp"
	ModeNameBuybackBurn   = "buyback_burn"
	ModeNameSendToWallet  = "send_to_wallet"
	ModeNameVolume        = "volume"
	ModeNameMarketMaking  = "market_making"
	ModeNameHolderRewards = "holder_rewards"
	ModeNameStakerRewards = "staker_rewards"
)

// RouteMode is the closed set of fee routing modes. Each variant carries
// only the data it needs; adding a mode means adding a variant and
// extending the type switch in ResolveRoute, which the compiler and the
// parse table keep in sync.
type RouteMode interface {
	routeMode()
	Name() string
}

type LPMode struct{}
type BuybackBurnMode struct{}
type SendToWalletMode struct{ Destination string }
type VolumeMode struct{}
type MarketMakingMode struct{}
type HolderRewardsMode struct{}
type StakerRewardsMode struct{}

func (LPMode) routeMode()            {}
func (BuybackBurnMode) routeMode()   {}
func (SendToWalletMode) routeMode()  {}
func (VolumeMode) routeMode()        {}
func (MarketMakingMode) routeMode()  {}
func (HolderRewardsMode) routeMode() {}
func (StakerRewardsMode) routeMode() {}

func (LPMode) Name() string            { return ModeNameLP }
func (BuybackBurnMode) Name() string   { return ModeNameBuybackBurn }
func (SendToWalletMode) Name() string  { return ModeNameSendToWallet }
func (VolumeMode) Name() string        { return ModeNameVolume }
func (MarketMakingMode) Name() string  { return ModeNameMarketMaking }
func (HolderRewardsMode) Name() string { return ModeNameHolderRewards }
func (StakerRewardsMode) Name() string { return ModeNameStakerRewards }

// ParseRouteMode turns a stored routing_config row into its typed mode.
// A send_to_wallet config without a payout wallet is rejected here, before
// any fee movement can depend on it.
func ParseRouteMode(mode, payoutWallet string) (RouteMode, error) {
	switch mode {
	case ModeNameLP:
		return LPMode{}, nil
	case ModeNameBuybackBurn:
		return BuybackBurnMode{}, nil
	case ModeNameSendToWallet:
		if payoutWallet == "" {
			return nil, ErrMissingPayoutWallet
		}
		return SendToWalletMode{Destination: payoutWallet}, nil
	case ModeNameVolume:
		return VolumeMode{}, nil
	case ModeNameMarketMaking:
		return MarketMakingMode{}, nil
	case ModeNameHolderRewards:
		return HolderRewardsMode{}, nil
	case ModeNameStakerRewards:
		return StakerRewardsMode{}, nil
	default:
		return nil, fmt.Errorf("unknown routing mode %q", mode)
	}
}

// RouteOp says what the execution service should do with an accrued fee
// amount: a plain transfer to a destination, an add-liquidity against the
// pool, or a swap-then-burn against the pool.
const (
	RouteOpTransfer     = "transfer"
	RouteOpAddLiquidity = "add_liquidity"
	RouteOpSwapAndBurn  = "swap_and_burn"
)

// RouteInstruction is the resolved routing decision. Destination is set
// for transfer ops only; pool-relative ops are delegated to the execution
// service, which knows the pool's accounts.
type RouteInstruction struct {
	Op          string `json:"op"`
	Destination string `json:"destination,omitempty"`
}

// ResolveRoute maps a routing mode to its instruction for a mint. The
// four vault modes derive their destination deterministically from the
// mint, so resolving twice always yields the identical address.
func ResolveRoute(mode RouteMode, mint string) (RouteInstruction, error) {
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return RouteInstruction{}, fmt.Errorf("invalid mint %q: %w", mint, err)
	}

	switch m := mode.(type) {
	case LPMode:
		return RouteInstruction{Op: RouteOpAddLiquidity}, nil
	case BuybackBurnMode:
		return RouteInstruction{Op: RouteOpSwapAndBurn}, nil
	case SendToWalletMode:
		if m.Destination == "" {
			return RouteInstruction{}, ErrMissingPayoutWallet
		}
		return RouteInstruction{Op: RouteOpTransfer, Destination: m.Destination}, nil
	case VolumeMode:
		vault, err := platformsol.GetVolumeVault(mintKey)
		if err != nil {
			return RouteInstruction{}, err
		}
		return RouteInstruction{Op: RouteOpTransfer, Destination: vault.String()}, nil
	case MarketMakingMode:
		vault, err := platformsol.GetMarketMakingVault(mintKey)
		if err != nil {
			return RouteInstruction{}, err
		}
		return RouteInstruction{Op: RouteOpTransfer, Destination: vault.String()}, nil
	case HolderRewardsMode:
		vault, err := platformsol.GetRewardsVault(mintKey, "holders")
		if err != nil {
			return RouteInstruction{}, err
		}
		return RouteInstruction{Op: RouteOpTransfer, Destination: vault.String()}, nil
	case StakerRewardsMode:
		vault, err := platformsol.GetRewardsVault(mintKey, "stakers")
		if err != nil {
			return RouteInstruction{}, err
		}
		return RouteInstruction{Op: RouteOpTransfer, Destination: vault.String()}, nil
	default:
		return RouteInstruction{}, fmt.Errorf("unhandled routing mode %T", mode)
	}
}

// LoadRouteMode reads and parses a mint's routing config.
func LoadRouteMode(db *gorm.DB, mint string) (RouteMode, error) {
	var cfg models.RoutingConfig
	if err := db.Where("mint = ?", mint).First(&cfg).Error; err != nil {
		return nil, err
	}
	return ParseRouteMode(cfg.Mode, cfg.PayoutWallet)
}
