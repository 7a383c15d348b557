package business

import (
	"context"
	"fmt"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/execution"

	"github.com/gagliardetto/solana-go"
	"gorm.io/gorm"
)

// LaunchRequest creates a new token on the bonding curve. Mint is the
// already-minted token address; minting and signing happen on the caller's
// side.
type LaunchRequest struct {
	Name         string
	Ticker       string
	Mint         string
	Creator      string
	ImageURI     string
	Description  string
	RoutingMode  string
	PayoutWallet string
}

// LaunchToken reserves the token's identity, asks the execution service
// for a bonding pool seeded with the curve's share of supply, and persists
// the token, bonding state and routing config. The identity reservation
// comes first: it is the atomic one-launch-only gate, and a lost race
// aborts the launch before any pool exists.
func LaunchToken(ctx context.Context, db *gorm.DB, exec *execution.Client, req LaunchRequest) (*models.Token, error) {
	if _, err := solana.PublicKeyFromBase58(req.Mint); err != nil {
		return nil, fmt.Errorf("invalid mint %q: %w", req.Mint, err)
	}
	if _, err := solana.PublicKeyFromBase58(req.Creator); err != nil {
		return nil, fmt.Errorf("invalid creator %q: %w", req.Creator, err)
	}

	mode := req.RoutingMode
	if mode == "" {
		mode = ModeNameLP
	}
	if _, err := ParseRouteMode(mode, req.PayoutWallet); err != nil {
		return nil, err
	}

	if err := ReserveIdentity(db, req.Name, req.Ticker, req.Mint, req.Creator); err != nil {
		return nil, err
	}

	curveTokens := TokenTotalSupply * uint64(CurveSupplyPercent) / 100 * pow10(TokenDecimals)
	pool, err := exec.CreatePool(ctx, execution.CreatePoolRequest{
		Mint:        req.Mint,
		BaseAmount:  0,
		TokenAmount: curveTokens,
		Creator:     req.Creator,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create bonding pool: %v", ErrExecutionFailed, err)
	}

	token := models.Token{
		Mint:        req.Mint,
		Name:        req.Name,
		Ticker:      req.Ticker,
		ImageURI:    req.ImageURI,
		Description: req.Description,
		Creator:     req.Creator,
		Decimals:    TokenDecimals,
		TotalSupply: TokenTotalSupply,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&token).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.BondingState{
			Mint:         req.Mint,
			PoolRef:      pool.PoolRef,
			TargetAmount: BondingTargetLamports,
			Status:       models.BondingStatusActive,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.RoutingConfig{
			Mint:         req.Mint,
			Mode:         mode,
			PayoutWallet: req.PayoutWallet,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &token, nil
}
