package business

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"launchcontrol/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderDelta(t *testing.T) {
	db := openTestDB(t)

	t.Run("First Delta Creates The Row", func(t *testing.T) {
		require.NoError(t, ApplyHolderDelta(db, "HolderMint", "WalletA", 1_000))

		var holder models.Holder
		require.NoError(t, db.Where("mint = ? AND wallet = ?", "HolderMint", "WalletA").First(&holder).Error)
		assert.Equal(t, int64(1_000), holder.Balance)
	})

	t.Run("Deltas Accumulate", func(t *testing.T) {
		require.NoError(t, ApplyHolderDelta(db, "HolderMint", "WalletA", 500))
		require.NoError(t, ApplyHolderDelta(db, "HolderMint", "WalletA", -300))

		var holder models.Holder
		require.NoError(t, db.Where("mint = ? AND wallet = ?", "HolderMint", "WalletA").First(&holder).Error)
		assert.Equal(t, int64(1_200), holder.Balance)
	})

	t.Run("Concurrent Deltas Never Lose An Update", func(t *testing.T) {
		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, ApplyHolderDelta(db, "HolderMint", "WalletRace", 7))
			}()
		}
		wg.Wait()

		var holder models.Holder
		require.NoError(t, db.Where("mint = ? AND wallet = ?", "HolderMint", "WalletRace").First(&holder).Error)
		assert.Equal(t, int64(workers*7), holder.Balance)
	})
}

func TestTradeQueries(t *testing.T) {
	db := openTestDB(t)

	base := time.Now().Unix()
	for i := 0; i < 5; i++ {
		require.NoError(t, AppendTrade(db, &models.Trade{
			Mint:           "QueryMint",
			Trader:         fmt.Sprintf("Trader%d", i),
			Side:           models.TradeSideBuy,
			BaseAmount:     int64(100 * (i + 1)),
			TokenAmount:    uint64(1_000 * (i + 1)),
			FeeAmount:      1,
			Price:          float64(i + 1),
			IsBondingPhase: true,
			Timestamp:      base + int64(i),
		}))
	}

	t.Run("Recent Trades Come Newest First", func(t *testing.T) {
		trades, err := RecentTrades(db, "QueryMint", 3)
		require.NoError(t, err)
		require.Len(t, trades, 3)
		assert.Equal(t, "Trader4", trades[0].Trader)
		assert.GreaterOrEqual(t, trades[0].Timestamp, trades[1].Timestamp)
	})

	t.Run("Last Trade Price Tracks Latest", func(t *testing.T) {
		price, err := LastTradePrice(db, "QueryMint")
		require.NoError(t, err)
		assert.Equal(t, float64(5), price)
	})

	t.Run("No Trades Means Zero Price", func(t *testing.T) {
		price, err := LastTradePrice(db, "SilentMint")
		require.NoError(t, err)
		assert.Zero(t, price)
	})

	t.Run("Top Holders Ordered By Balance", func(t *testing.T) {
		require.NoError(t, ApplyHolderDelta(db, "QueryMint", "Whale", 1_000_000))
		require.NoError(t, ApplyHolderDelta(db, "QueryMint", "Shrimp", 10))

		holders, err := TopHolders(db, "QueryMint", 10)
		require.NoError(t, err)
		require.NotEmpty(t, holders)
		assert.Equal(t, "Whale", holders[0].Wallet)
	})
}
