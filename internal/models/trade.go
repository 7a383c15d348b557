package models

import (
	"time"
)

const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)

// Trade is one executed swap, append-only and immutable once written.
// BaseAmount and FeeAmount are in lamports, TokenAmount in base token
// units.
type Trade struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Mint           string    `gorm:"size:100;not null;index" json:"mint"`
	Trader         string    `gorm:"size:100;not null;index" json:"trader"`
	Side           string    `gorm:"size:4;not null" json:"side"`
	BaseAmount     int64     `gorm:"not null" json:"base_amount"`
	TokenAmount    uint64    `gorm:"not null" json:"token_amount"`
	FeeAmount      int64     `gorm:"not null" json:"fee_amount"`
	Price          float64   `gorm:"not null" json:"price"`
	TxRef          string    `gorm:"size:100;default:''" json:"tx_ref"`
	IsBondingPhase bool      `gorm:"not null" json:"is_bonding_phase"`
	Timestamp      int64     `gorm:"not null;index" json:"timestamp"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Trade) TableName() string {
	return "trades"
}

// Holder is the per-wallet balance for a mint, upserted after every trade
// that changes the wallet's token balance.
type Holder struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Mint        string    `gorm:"size:100;not null;uniqueIndex:idx_holder,priority:1" json:"mint"`
	Wallet      string    `gorm:"size:100;not null;uniqueIndex:idx_holder,priority:2" json:"wallet"`
	Balance     int64     `gorm:"not null;default:0" json:"balance"`
	LastUpdated time.Time `json:"last_updated" gorm:"autoUpdateTime"`
}

func (Holder) TableName() string {
	return "holders"
}
