package business

import (
	"database/sql"
	"errors"
	"time"

	"launchcontrol/internal/models"

	"gorm.io/gorm"
)

// The bonding state machine owns every mutation of bonding_states. All
// transitions are single-statement updates scoped to one mint, so
// correctness holds across processes without any in-memory coordination:
// the database row is the only authority.

// RecordContribution atomically adds delta lamports to the mint's
// collected amount and returns the post-update total. Sells pass a
// negative delta. The increment and the read happen in one statement, so
// two concurrent contributions of X and Y always land as old+X+Y.
// Returns ErrBondingClosed once the state has left active.
func RecordContribution(db *gorm.DB, mint string, delta int64) (int64, error) {
	row := db.Raw(`
		UPDATE bonding_states
		SET collected_amount = collected_amount + ?, updated_at = ?
		WHERE mint = ? AND status = ?
		RETURNING collected_amount`,
		delta, time.Now(), mint, models.BondingStatusActive,
	).Row()

	var newTotal int64
	if err := row.Scan(&newTotal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No active row: either the mint is unknown or bonding has
			// moved past active.
			var state models.BondingState
			if lookupErr := db.Where("mint = ?", mint).First(&state).Error; lookupErr != nil {
				return 0, lookupErr
			}
			return 0, ErrBondingClosed
		}
		return 0, err
	}
	return newTotal, nil
}

// CheckAndTransitionToFinalizing performs the compare-and-swap from active
// to finalizing, guarded on the collected amount having reached the
// target. Exactly one concurrent caller at the crossing point observes
// true; every other caller, including later ones, observes false.
func CheckAndTransitionToFinalizing(db *gorm.DB, mint string) (bool, error) {
	res := db.Model(&models.BondingState{}).
		Where("mint = ? AND status = ? AND collected_amount >= target_amount", mint, models.BondingStatusActive).
		Update("status", models.BondingStatusFinalizing)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkComplete moves a finalizing token to the terminal complete state,
// stamping completed_at and freezing the collected amount. A second call
// returns ErrAlreadyComplete so a retried finalization can detect the
// earlier success and skip re-payout.
func MarkComplete(db *gorm.DB, mint, poolRef string, finalAmount int64) error {
	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.BondingState{}).
			Where("mint = ? AND status = ?", mint, models.BondingStatusFinalizing).
			Updates(map[string]interface{}{
				"status":           models.BondingStatusComplete,
				"collected_amount": finalAmount,
				"completed_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var state models.BondingState
			if err := tx.Where("mint = ?", mint).First(&state).Error; err != nil {
				return err
			}
			if state.IsComplete() {
				return ErrAlreadyComplete
			}
			return ErrNotFinalizing
		}

		return tx.Model(&models.Token{}).
			Where("mint = ?", mint).
			Updates(map[string]interface{}{
				"bonding_complete":   true,
				"permanent_pool_ref": poolRef,
				"total_collected":    finalAmount,
			}).Error
	})
}

// GetBondingState loads the current bonding row for a mint.
func GetBondingState(db *gorm.DB, mint string) (*models.BondingState, error) {
	var state models.BondingState
	if err := db.Where("mint = ?", mint).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// IsBondingActive reports whether trades should still run on the bonding
// pool.
func IsBondingActive(db *gorm.DB, mint string) (bool, error) {
	state, err := GetBondingState(db, mint)
	if err != nil {
		return false, err
	}
	return state.Status == models.BondingStatusActive, nil
}
