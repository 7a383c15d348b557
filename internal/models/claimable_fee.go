package models

import (
	"time"
)

const (
	FeeKindCreator  = "creator"
	FeeKindPlatform = "platform"
)

// ClaimableFee is one accrued fee entry in lamports. Rows are append-only;
// a claim flips every matching unclaimed row to claimed in a single
// statement so concurrent claims can never double-pay.
type ClaimableFee struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Mint      string     `gorm:"size:100;not null;index:idx_claimable,priority:1" json:"mint"`
	Wallet    string     `gorm:"size:100;not null;index:idx_claimable,priority:2" json:"wallet"`
	FeeKind   string     `gorm:"size:10;not null;index:idx_claimable,priority:3" json:"fee_kind"`
	Amount    int64      `gorm:"not null" json:"amount"`
	Claimed   bool       `gorm:"not null;default:false;index:idx_claimable,priority:4" json:"claimed"`
	ClaimedAt *time.Time `json:"claimed_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (ClaimableFee) TableName() string {
	return "claimable_fees"
}
