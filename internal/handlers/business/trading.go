package business

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/execution"
	"launchcontrol/pkg/utils"

	"gorm.io/gorm"
)

// TradeRequest is one buy or sell against a token's bonding pool.
// For buys Amount is gross base currency in lamports; for sells it is the
// token amount being sold.
type TradeRequest struct {
	Mint        string
	Trader      string
	Side        string
	Amount      int64
	SlippageBps int
}

// TradeResult is what the trade surface returns to the caller.
type TradeResult struct {
	Fees                  FeeSplit `json:"fees"`
	NewTotal              int64    `json:"new_total"`
	TriggeredFinalization bool     `json:"triggered_finalization"`
	TxRef                 string   `json:"tx_ref"`
	ExpectedAmount        int64    `json:"expected_amount"`
	Price                 float64  `json:"price"`
}

// ExecuteTrade runs one trade through the bonding lifecycle:
//
//  1. quote and build against the execution service (no DB state held),
//  2. submit for execution,
//  3. on confirmed success, record fees, trade, holder balance and the
//     collected-amount contribution in one DB transaction,
//  4. on buys, attempt the finalizing transition.
//
// Bookkeeping happens only after a confirmed submission, so a failed or
// timed-out external call leaves no ledger residue behind and there is
// nothing to compensate. The slow network calls in steps 1-2 hold no
// database state, so one stalled trader never blocks another's
// bookkeeping.
func ExecuteTrade(ctx context.Context, db *gorm.DB, exec *execution.Client, tiers *FeeTierTable, req TradeRequest) (*TradeResult, error) {
	if req.Side != models.TradeSideBuy && req.Side != models.TradeSideSell {
		return nil, fmt.Errorf("invalid trade side %q", req.Side)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("trade amount must be positive")
	}
	if req.SlippageBps == 0 {
		req.SlippageBps = DefaultSlippageBps
	}

	state, err := GetBondingState(db, req.Mint)
	if err != nil {
		return nil, err
	}
	if state.Status != models.BondingStatusActive {
		return nil, ErrBondingClosed
	}

	var token models.Token
	if err := db.Where("mint = ?", req.Mint).First(&token).Error; err != nil {
		return nil, err
	}

	quote, err := exec.QuoteAndBuild(ctx, execution.QuoteRequest{
		Pool:        state.PoolRef,
		Side:        req.Side,
		Amount:      req.Amount,
		SlippageBps: req.SlippageBps,
		Trader:      req.Trader,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}

	submit, err := exec.Submit(ctx, execution.SubmitRequest{Transaction: quote.Transaction})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}
	if !submit.Confirmed {
		return nil, fmt.Errorf("%w: submission not confirmed", ErrExecutionFailed)
	}

	// Fee basis is the base currency leg: the gross spend on buys, the
	// gross proceeds on sells.
	baseAmount := req.Amount
	tokenAmount := uint64(quote.ExpectedCounterAmount)
	if req.Side == models.TradeSideSell {
		baseAmount = quote.ExpectedCounterAmount
		tokenAmount = uint64(req.Amount)
	}

	marketCap := EstimateMarketCap(quote.Price, token.TotalSupply)
	tier, err := tiers.TierFor(marketCap)
	if err != nil {
		return nil, err
	}
	fees := SplitFee(baseAmount, tier)

	// A buy grows the pool by its net-of-fee spend; a sell shrinks it by
	// the proceeds paid out.
	delta := baseAmount - fees.Total
	holderDelta := int64(tokenAmount)
	if req.Side == models.TradeSideSell {
		delta = -baseAmount
		holderDelta = -int64(tokenAmount)
	}

	var newTotal int64
	err = db.Transaction(func(tx *gorm.DB) error {
		newTotal, err = RecordContribution(tx, req.Mint, delta)
		if err != nil {
			return err
		}
		if err := AccrueFee(tx, req.Mint, token.Creator, models.FeeKindCreator, fees.Creator); err != nil {
			return err
		}
		if err := AccrueFee(tx, req.Mint, PlatformWallet(), models.FeeKindPlatform, fees.Platform); err != nil {
			return err
		}
		if err := AppendTrade(tx, &models.Trade{
			Mint:           req.Mint,
			Trader:         req.Trader,
			Side:           req.Side,
			BaseAmount:     baseAmount,
			TokenAmount:    tokenAmount,
			FeeAmount:      fees.Total,
			Price:          quote.Price,
			TxRef:          submit.TxRef,
			IsBondingPhase: true,
			Timestamp:      time.Now().UnixMilli(),
		}); err != nil {
			return err
		}
		return ApplyHolderDelta(tx, req.Mint, req.Trader, holderDelta)
	})
	if err != nil {
		// A concurrent buy can flip the state to finalizing between the
		// status pre-check and RecordContribution. The swap is already
		// confirmed at that point, so carry the tx ref out instead of a
		// plain closed error.
		if errors.Is(err, ErrBondingClosed) {
			return nil, &TradeSettledClosedError{Mint: req.Mint, TxRef: submit.TxRef}
		}
		return nil, err
	}

	// Only buys may cross the threshold; a sell never drives the
	// transition even when the total still sits above target.
	triggered := false
	if req.Side == models.TradeSideBuy && newTotal >= state.TargetAmount {
		triggered, err = CheckAndTransitionToFinalizing(db, req.Mint)
		if err != nil {
			return nil, err
		}
	}

	return &TradeResult{
		Fees:                  fees,
		NewTotal:              newTotal,
		TriggeredFinalization: triggered,
		TxRef:                 submit.TxRef,
		ExpectedAmount:        quote.ExpectedCounterAmount,
		Price:                 quote.Price,
	}, nil
}

// EstimateMarketCap converts a quoted price into the USD market cap the
// fee schedule is denominated in.
func EstimateMarketCap(price float64, totalSupply uint64) float64 {
	return utils.EstimateMarketCap(price, totalSupply, solPriceUSD())
}

// PlatformWallet is the platform's fee and payout account.
func PlatformWallet() string {
	return os.Getenv("PLATFORM_WALLET")
}

func solPriceUSD() float64 {
	if raw := os.Getenv("SOL_PRICE_USD"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return v
		}
	}
	return 150
}
