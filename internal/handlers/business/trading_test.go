package business

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/execution"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeTradeService quotes and confirms swaps at a fixed price, trading
// two tokens per lamport. rejectNext scripts pending submit rejections;
// unconfirmed flips confirmation off; submitHook runs while a submit is
// in flight, before the confirmation is written.
type fakeTradeService struct {
	server      *httptest.Server
	price       float64
	rejectNext  int32
	unconfirmed int32
	submits     int32

	mu         sync.Mutex
	submitHook func()
}

func (f *fakeTradeService) setSubmitHook(hook func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitHook = hook
}

func (f *fakeTradeService) runSubmitHook() {
	f.mu.Lock()
	hook := f.submitHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func newFakeTradeService(t *testing.T) *fakeTradeService {
	t.Helper()
	f := &fakeTradeService{price: 1e-7}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/quote":
			var req execution.QuoteRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(execution.QuoteResponse{
				Transaction:           "tx-blob",
				ExpectedCounterAmount: req.Amount * 2,
				Price:                 f.price,
			})
		case "/v1/submit":
			if atomic.AddInt32(&f.rejectNext, -1) >= 0 {
				http.Error(w, "rejected", http.StatusBadRequest)
				return
			}
			f.runSubmitHook()
			n := atomic.AddInt32(&f.submits, 1)
			json.NewEncoder(w).Encode(execution.SubmitResponse{
				TxRef:     fmt.Sprintf("sig-%d", n),
				Confirmed: atomic.LoadInt32(&f.unconfirmed) == 0,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func requireNoTradeResidue(t *testing.T, db *gorm.DB, mint string) {
	t.Helper()
	var trades, fees, holders, collected int64
	require.NoError(t, db.Model(&models.Trade{}).Where("mint = ?", mint).Count(&trades).Error)
	require.NoError(t, db.Model(&models.ClaimableFee{}).Where("mint = ?", mint).Count(&fees).Error)
	require.NoError(t, db.Model(&models.Holder{}).Where("mint = ?", mint).Count(&holders).Error)
	require.NoError(t, db.Model(&models.BondingState{}).Where("mint = ?", mint).
		Select("collected_amount").Scan(&collected).Error)
	assert.Zero(t, trades)
	assert.Zero(t, fees)
	assert.Zero(t, holders)
	assert.Zero(t, collected)
}

func TestExecuteTrade(t *testing.T) {
	db := openTestDB(t)
	t.Setenv("PLATFORM_WALLET", "PlatformWalletTrade")
	t.Setenv("SOL_PRICE_USD", "150")

	svc := newFakeTradeService(t)
	exec := execution.NewClient(svc.server.URL)
	tiers, err := NewFeeTierTable(DefaultFeeTiers)
	require.NoError(t, err)
	ctx := context.Background()

	// price 1e-7 values the 1B supply at 15,000 USD, which lands in the
	// bottom tier: 100 bps total, 10 to the creator, 90 to the platform.

	t.Run("Buy Records Fees Trade And Holder", func(t *testing.T) {
		seedBondingState(t, db, "TradeBuyMint", 50_000)

		result, err := ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint:   "TradeBuyMint",
			Trader: "BuyerOne",
			Side:   models.TradeSideBuy,
			Amount: 30_000,
		})
		require.NoError(t, err)
		assert.Equal(t, FeeSplit{Total: 300, Creator: 30, Platform: 270}, result.Fees)
		assert.Equal(t, int64(29_700), result.NewTotal)
		assert.False(t, result.TriggeredFinalization)
		assert.NotEmpty(t, result.TxRef)

		var trade models.Trade
		require.NoError(t, db.Where("mint = ?", "TradeBuyMint").First(&trade).Error)
		assert.Equal(t, models.TradeSideBuy, trade.Side)
		assert.Equal(t, int64(30_000), trade.BaseAmount)
		assert.Equal(t, uint64(60_000), trade.TokenAmount)
		assert.Equal(t, int64(300), trade.FeeAmount)
		assert.Equal(t, result.TxRef, trade.TxRef)
		assert.True(t, trade.IsBondingPhase)

		var creatorFee, platformFee models.ClaimableFee
		require.NoError(t, db.Where("mint = ? AND fee_kind = ?", "TradeBuyMint", models.FeeKindCreator).
			First(&creatorFee).Error)
		assert.Equal(t, "CreatorBND", creatorFee.Wallet)
		assert.Equal(t, int64(30), creatorFee.Amount)
		require.NoError(t, db.Where("mint = ? AND fee_kind = ?", "TradeBuyMint", models.FeeKindPlatform).
			First(&platformFee).Error)
		assert.Equal(t, "PlatformWalletTrade", platformFee.Wallet)
		assert.Equal(t, int64(270), platformFee.Amount)

		var holder models.Holder
		require.NoError(t, db.Where("mint = ? AND wallet = ?", "TradeBuyMint", "BuyerOne").
			First(&holder).Error)
		assert.Equal(t, int64(60_000), holder.Balance)
	})

	t.Run("Buy Crossing Target Triggers Once", func(t *testing.T) {
		seedBondingState(t, db, "TradeCrossMint", 50_000)

		first, err := ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint: "TradeCrossMint", Trader: "Whale", Side: models.TradeSideBuy, Amount: 30_000,
		})
		require.NoError(t, err)
		assert.False(t, first.TriggeredFinalization)

		second, err := ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint: "TradeCrossMint", Trader: "Whale", Side: models.TradeSideBuy, Amount: 25_000,
		})
		require.NoError(t, err)
		assert.True(t, second.TriggeredFinalization)
		assert.Equal(t, int64(54_450), second.NewTotal)

		state, err := GetBondingState(db, "TradeCrossMint")
		require.NoError(t, err)
		assert.Equal(t, models.BondingStatusFinalizing, state.Status)

		_, err = ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint: "TradeCrossMint", Trader: "Whale", Side: models.TradeSideBuy, Amount: 1_000,
		})
		assert.ErrorIs(t, err, ErrBondingClosed)
	})

	t.Run("Sell Never Triggers Even Above Target", func(t *testing.T) {
		seedBondingState(t, db, "TradeSellMint", 50_000)
		require.NoError(t, db.Model(&models.BondingState{}).
			Where("mint = ?", "TradeSellMint").
			Update("collected_amount", 55_000).Error)
		require.NoError(t, ApplyHolderDelta(db, "TradeSellMint", "SellerOne", 50_000))

		result, err := ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint:   "TradeSellMint",
			Trader: "SellerOne",
			Side:   models.TradeSideSell,
			Amount: 10_000,
		})
		require.NoError(t, err)
		assert.False(t, result.TriggeredFinalization)
		assert.Equal(t, int64(35_000), result.NewTotal)
		assert.Equal(t, FeeSplit{Total: 200, Creator: 20, Platform: 180}, result.Fees)

		state, err := GetBondingState(db, "TradeSellMint")
		require.NoError(t, err)
		assert.Equal(t, models.BondingStatusActive, state.Status)

		var holder models.Holder
		require.NoError(t, db.Where("mint = ? AND wallet = ?", "TradeSellMint", "SellerOne").
			First(&holder).Error)
		assert.Equal(t, int64(40_000), holder.Balance)
	})

	t.Run("Rejected Submit Leaves No Residue", func(t *testing.T) {
		seedBondingState(t, db, "TradeRejectMint", 50_000)
		atomic.StoreInt32(&svc.rejectNext, 1)

		_, err := ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint: "TradeRejectMint", Trader: "BuyerTwo", Side: models.TradeSideBuy, Amount: 10_000,
		})
		require.ErrorIs(t, err, ErrExecutionFailed)
		requireNoTradeResidue(t, db, "TradeRejectMint")
	})

	t.Run("Unconfirmed Submit Leaves No Residue", func(t *testing.T) {
		seedBondingState(t, db, "TradeUnconfMint", 50_000)
		atomic.StoreInt32(&svc.unconfirmed, 1)
		defer atomic.StoreInt32(&svc.unconfirmed, 0)

		_, err := ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint: "TradeUnconfMint", Trader: "BuyerThree", Side: models.TradeSideBuy, Amount: 10_000,
		})
		require.ErrorIs(t, err, ErrExecutionFailed)
		requireNoTradeResidue(t, db, "TradeUnconfMint")
	})

	t.Run("Bonding Closing Mid Trade Surfaces Tx Ref", func(t *testing.T) {
		seedBondingState(t, db, "TradeRaceMint", 1_000_000)
		svc.setSubmitHook(func() {
			require.NoError(t, db.Model(&models.BondingState{}).
				Where("mint = ?", "TradeRaceMint").
				Update("status", models.BondingStatusFinalizing).Error)
		})
		defer svc.setSubmitHook(nil)

		_, err := ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint: "TradeRaceMint", Trader: "BuyerFour", Side: models.TradeSideBuy, Amount: 10_000,
		})
		require.ErrorIs(t, err, ErrBondingClosed)

		var settled *TradeSettledClosedError
		require.ErrorAs(t, err, &settled)
		assert.NotEmpty(t, settled.TxRef)
		assert.Equal(t, "TradeRaceMint", settled.Mint)

		var trades int64
		require.NoError(t, db.Model(&models.Trade{}).Where("mint = ?", "TradeRaceMint").Count(&trades).Error)
		assert.Zero(t, trades)
	})

	t.Run("Rejects Invalid Side And Amount", func(t *testing.T) {
		_, err := ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint: "TradeBuyMint", Trader: "X", Side: "short", Amount: 100,
		})
		require.Error(t, err)

		_, err = ExecuteTrade(ctx, db, exec, tiers, TradeRequest{
			Mint: "TradeBuyMint", Trader: "X", Side: models.TradeSideBuy, Amount: 0,
		})
		require.Error(t, err)
	})
}
