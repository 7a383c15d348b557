package business

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/execution"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinalizeMessage is the queue payload published when a token crosses its
// bonding target.
type FinalizeMessage struct {
	Mint string `json:"mint"`
}

// EnsureFinalizationJob creates the persisted step cursor for a mint if it
// does not exist yet. Safe to call from every code path that notices a
// finalizing token; the conflict clause makes duplicates a no-op.
func EnsureFinalizationJob(db *gorm.DB, mint string) (*models.FinalizationJob, error) {
	job := models.FinalizationJob{Mint: mint, Step: models.FinalizeStepNone}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mint"}},
		DoNothing: true,
	}).Create(&job).Error; err != nil {
		return nil, err
	}
	var current models.FinalizationJob
	if err := db.Where("mint = ?", mint).First(&current).Error; err != nil {
		return nil, err
	}
	return &current, nil
}

// RunFinalization drives the migration of one finalizing token to its
// permanent pool, resuming from the persisted step cursor:
//
//	1. withdraw all liquidity from the bonding pool
//	2. create the permanent pool (47 SOL + 85% of supply)
//	3. pay out the creator (2 SOL) and the platform (1 SOL)
//	4. mark bonding complete
//
// Every step is idempotent or guarded by an already-done check, so a
// failure at any point leaves the token in finalizing and a later run
// picks up from the first incomplete step. A token already complete is a
// successful no-op.
func RunFinalization(ctx context.Context, db *gorm.DB, exec *execution.Client, mint string) error {
	state, err := GetBondingState(db, mint)
	if err != nil {
		return err
	}
	if state.IsComplete() {
		return nil
	}
	if state.Status != models.BondingStatusFinalizing {
		return fmt.Errorf("%w: mint %s is %s", ErrNotFinalizing, mint, state.Status)
	}

	job, err := EnsureFinalizationJob(db, mint)
	if err != nil {
		return err
	}

	log := logrus.WithFields(logrus.Fields{"mint": mint, "step": job.Step})
	log.Info("Resuming finalization")

	if err := db.Model(job).Update("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
		return err
	}

	var token models.Token
	if err := db.Where("mint = ?", mint).First(&token).Error; err != nil {
		return err
	}

	if job.Step < models.FinalizeStepWithdrawn {
		// The service reports Withdrawn=false for an already empty pool,
		// which is how a retried step 1 detects earlier success.
		if _, err := exec.WithdrawAllLiquidity(ctx, state.PoolRef); err != nil {
			return failStep(db, job, fmt.Errorf("%w: withdraw: %v", ErrExecutionFailed, err))
		}
		if err := advanceStep(db, job, models.FinalizeStepWithdrawn); err != nil {
			return err
		}
	}

	if job.Step < models.FinalizeStepPoolMade {
		if job.PermanentPoolRef == "" {
			poolTokens := token.TotalSupply * uint64(CurveSupplyPercent) / 100 * pow10(token.Decimals)
			resp, err := exec.CreatePool(ctx, execution.CreatePoolRequest{
				Mint:        mint,
				BaseAmount:  PoolSeedLamports,
				TokenAmount: poolTokens,
				Creator:     token.Creator,
			})
			if err != nil {
				return failStep(db, job, fmt.Errorf("%w: create pool: %v", ErrExecutionFailed, err))
			}
			if err := db.Model(job).Update("permanent_pool_ref", resp.PoolRef).Error; err != nil {
				return err
			}
			job.PermanentPoolRef = resp.PoolRef
		}
		if err := advanceStep(db, job, models.FinalizeStepPoolMade); err != nil {
			return err
		}
	}

	if job.Step < models.FinalizeStepPaidOut {
		treasury := treasuryWallet()
		payouts := []execution.TransferRequest{
			{From: treasury, To: token.Creator, Amount: CreatorPayoutLamports},
			{From: treasury, To: PlatformWallet(), Amount: PlatformPayoutLamports},
		}
		for _, p := range payouts {
			if _, err := exec.Transfer(ctx, p); err != nil {
				return failStep(db, job, fmt.Errorf("%w: payout to %s: %v", ErrExecutionFailed, p.To, err))
			}
		}
		if err := advanceStep(db, job, models.FinalizeStepPaidOut); err != nil {
			return err
		}
	}

	err = MarkComplete(db, mint, job.PermanentPoolRef, state.CollectedAmount)
	if err != nil && !errors.Is(err, ErrAlreadyComplete) {
		return failStep(db, job, err)
	}
	if err := advanceStep(db, job, models.FinalizeStepDone); err != nil {
		return err
	}

	log.WithField("pool", job.PermanentPoolRef).Info("Finalization complete")
	return nil
}

// FindStuckFinalizations lists mints left in finalizing longer than
// olderThan, for the recovery pass.
func FindStuckFinalizations(db *gorm.DB, olderThan time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-olderThan)
	var mints []string
	err := db.Model(&models.BondingState{}).
		Where("status = ? AND updated_at < ?", models.BondingStatusFinalizing, cutoff).
		Pluck("mint", &mints).Error
	return mints, err
}

func advanceStep(db *gorm.DB, job *models.FinalizationJob, step int) error {
	if err := db.Model(job).Updates(map[string]interface{}{
		"step":       step,
		"last_error": "",
	}).Error; err != nil {
		return err
	}
	job.Step = step
	return nil
}

func failStep(db *gorm.DB, job *models.FinalizationJob, cause error) error {
	if dbErr := db.Model(job).Update("last_error", cause.Error()).Error; dbErr != nil {
		logrus.WithError(dbErr).Warn("Failed to record finalization error")
	}
	return cause
}

func treasuryWallet() string {
	if w := os.Getenv("TREASURY_WALLET"); w != "" {
		return w
	}
	return PlatformWallet()
}

func pow10(n int) uint64 {
	v := uint64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
