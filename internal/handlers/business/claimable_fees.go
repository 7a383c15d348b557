package business

import (
	"time"

	"launchcontrol/internal/models"

	"gorm.io/gorm"
)

// AccrueFee appends an unclaimed fee entry. Zero-amount accruals are
// skipped; floors in the fee split can legitimately produce them on dust
// trades.
func AccrueFee(db *gorm.DB, mint, wallet, kind string, amount int64) error {
	if amount == 0 {
		return nil
	}
	entry := models.ClaimableFee{
		Mint:    mint,
		Wallet:  wallet,
		FeeKind: kind,
		Amount:  amount,
	}
	return db.Create(&entry).Error
}

// ClaimableTotal sums the unclaimed entries for a (mint, wallet, kind).
func ClaimableTotal(db *gorm.DB, mint, wallet, kind string) (int64, error) {
	var total int64
	err := db.Model(&models.ClaimableFee{}).
		Where("mint = ? AND wallet = ? AND fee_kind = ? AND claimed = false", mint, wallet, kind).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// ClaimFees flips every currently-unclaimed matching entry to claimed and
// returns their sum, all in one statement. Two racing claims partition the
// unclaimed set between them: each row pays out exactly once, and the sums
// returned across the callers add up to the pre-claim unclaimed total. A
// claim that finds nothing returns 0, which is a valid result rather than
// an error.
func ClaimFees(db *gorm.DB, mint, wallet, kind string) (int64, error) {
	var claimed int64
	err := db.Raw(`
		WITH flipped AS (
			UPDATE claimable_fees
			SET claimed = true, claimed_at = ?
			WHERE mint = ? AND wallet = ? AND fee_kind = ? AND claimed = false
			RETURNING amount
		)
		SELECT COALESCE(SUM(amount), 0) FROM flipped`,
		time.Now(), mint, wallet, kind,
	).Scan(&claimed).Error
	return claimed, err
}
