package business

import (
	"errors"

	"launchcontrol/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppendTrade writes one immutable trade row.
func AppendTrade(db *gorm.DB, trade *models.Trade) error {
	return db.Create(trade).Error
}

// ApplyHolderDelta upserts the (mint, wallet) holder row, adding delta to
// the stored balance. The conflict clause applies the delta inside the
// insert statement, so two concurrent trades for the same wallet can never
// lose an update to each other.
func ApplyHolderDelta(db *gorm.DB, mint, wallet string, delta int64) error {
	holder := models.Holder{
		Mint:    mint,
		Wallet:  wallet,
		Balance: delta,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "mint"}, {Name: "wallet"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":      gorm.Expr("holders.balance + excluded.balance"),
			"last_updated": gorm.Expr("now()"),
		}),
	}).Create(&holder).Error
}

// RecentTrades returns the newest trades for a mint.
func RecentTrades(db *gorm.DB, mint string, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	err := db.Where("mint = ?", mint).
		Order("timestamp DESC").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

// TopHolders returns the largest balances for a mint.
func TopHolders(db *gorm.DB, mint string, limit int) ([]models.Holder, error) {
	var holders []models.Holder
	err := db.Where("mint = ? AND balance > 0", mint).
		Order("balance DESC").
		Limit(limit).
		Find(&holders).Error
	return holders, err
}

// LastTradePrice returns the most recent trade price for a mint, or 0 when
// the token has not traded yet.
func LastTradePrice(db *gorm.DB, mint string) (float64, error) {
	var trade models.Trade
	err := db.Where("mint = ?", mint).Order("timestamp DESC").First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return trade.Price, nil
}
