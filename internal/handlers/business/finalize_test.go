package business

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/execution"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeExecution is a scripted execution service. failures maps a path
// prefix to the number of 500s to serve before succeeding.
type fakeExecution struct {
	server    *httptest.Server
	withdraws int32
	pools     int32
	transfers int32
	failures  map[string]*int32
}

func newFakeExecution(t *testing.T) *fakeExecution {
	t.Helper()
	f := &fakeExecution{failures: make(map[string]*int32)}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for prefix, remaining := range f.failures {
			if strings.HasPrefix(r.URL.Path, prefix) && atomic.AddInt32(remaining, -1) >= 0 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}

		switch {
		case strings.HasSuffix(r.URL.Path, "/withdraw-all"):
			first := atomic.AddInt32(&f.withdraws, 1) == 1
			json.NewEncoder(w).Encode(execution.WithdrawResponse{
				Withdrawn:  first,
				BaseAmount: 50_000_000_000,
			})
		case r.URL.Path == "/v1/pools":
			atomic.AddInt32(&f.pools, 1)
			json.NewEncoder(w).Encode(execution.CreatePoolResponse{PoolRef: "perm-pool-x"})
		case r.URL.Path == "/v1/transfer":
			atomic.AddInt32(&f.transfers, 1)
			json.NewEncoder(w).Encode(execution.TransferResponse{OpRef: "op-1"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func seedFinalizingToken(t *testing.T, db *gorm.DB, mint string) {
	t.Helper()
	seedBondingState(t, db, mint, BondingTargetLamports)
	require.NoError(t, db.Model(&models.BondingState{}).Where("mint = ?", mint).
		Updates(map[string]interface{}{
			"collected_amount": BondingTargetLamports,
			"status":           models.BondingStatusFinalizing,
		}).Error)
}

func TestRunFinalization(t *testing.T) {
	db := openTestDB(t)
	fake := newFakeExecution(t)
	exec := execution.NewClient(fake.server.URL)
	ctx := context.Background()

	t.Run("Completes All Steps", func(t *testing.T) {
		seedFinalizingToken(t, db, "FinalMint")

		require.NoError(t, RunFinalization(ctx, db, exec, "FinalMint"))

		state, err := GetBondingState(db, "FinalMint")
		require.NoError(t, err)
		assert.True(t, state.IsComplete())
		assert.Equal(t, int64(BondingTargetLamports), state.CollectedAmount)

		var token models.Token
		require.NoError(t, db.Where("mint = ?", "FinalMint").First(&token).Error)
		assert.True(t, token.BondingComplete)
		assert.Equal(t, "perm-pool-x", token.PermanentPoolRef)

		var job models.FinalizationJob
		require.NoError(t, db.Where("mint = ?", "FinalMint").First(&job).Error)
		assert.Equal(t, models.FinalizeStepDone, job.Step)
		assert.Equal(t, int32(1), atomic.LoadInt32(&fake.pools))
		assert.Equal(t, int32(2), atomic.LoadInt32(&fake.transfers))
	})

	t.Run("Complete Token Is A No Op", func(t *testing.T) {
		transfersBefore := atomic.LoadInt32(&fake.transfers)
		require.NoError(t, RunFinalization(ctx, db, exec, "FinalMint"))
		assert.Equal(t, transfersBefore, atomic.LoadInt32(&fake.transfers))
	})

	t.Run("Active Token Is Rejected", func(t *testing.T) {
		seedBondingState(t, db, "ActiveMint", BondingTargetLamports)
		err := RunFinalization(ctx, db, exec, "ActiveMint")
		assert.ErrorIs(t, err, ErrNotFinalizing)
	})

	t.Run("Resumes After Payout Failure Without Repeating Earlier Steps", func(t *testing.T) {
		seedFinalizingToken(t, db, "ResumeMint")

		var fails int32 = 10
		fake.failures["/v1/transfer"] = &fails

		shortCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := RunFinalization(shortCtx, db, exec, "ResumeMint")
		cancel()
		require.ErrorIs(t, err, ErrExecutionFailed)

		var job models.FinalizationJob
		require.NoError(t, db.Where("mint = ?", "ResumeMint").First(&job).Error)
		assert.Equal(t, models.FinalizeStepPoolMade, job.Step)
		assert.NotEmpty(t, job.LastError)
		assert.Equal(t, "perm-pool-x", job.PermanentPoolRef)

		poolsBefore := atomic.LoadInt32(&fake.pools)
		delete(fake.failures, "/v1/transfer")

		require.NoError(t, RunFinalization(ctx, db, exec, "ResumeMint"))

		// pool creation must not run again on resume
		assert.Equal(t, poolsBefore, atomic.LoadInt32(&fake.pools))

		state, err := GetBondingState(db, "ResumeMint")
		require.NoError(t, err)
		assert.True(t, state.IsComplete())
	})

	t.Run("Stuck Scan Finds Old Finalizing Rows", func(t *testing.T) {
		seedFinalizingToken(t, db, "StuckMint")
		require.NoError(t, db.Model(&models.BondingState{}).Where("mint = ?", "StuckMint").
			Update("updated_at", time.Now().Add(-time.Hour)).Error)

		mints, err := FindStuckFinalizations(db, 10*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, mints, "StuckMint")
		assert.NotContains(t, mints, "FinalMint")
	})
}
