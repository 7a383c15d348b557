package models

import (
	"time"
)

// Bonding lifecycle states. Transitions are active -> finalizing ->
// complete, never skipping a state, and happen only through the
// single-statement updates in the business package.
const (
	BondingStatusActive     = "active"
	BondingStatusFinalizing = "finalizing"
	BondingStatusComplete   = "complete"
)

// BondingState tracks a token's bonding curve progress, 1:1 with Token.
// Amounts are in lamports. CollectedAmount is frozen once the state reaches
// complete.
type BondingState struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	Mint            string     `gorm:"size:100;uniqueIndex;not null" json:"mint"`
	PoolRef         string     `gorm:"size:100;not null" json:"pool_ref"`
	TargetAmount    int64      `gorm:"not null" json:"target_amount"`
	CollectedAmount int64      `gorm:"not null;default:0" json:"collected_amount"`
	Status          string     `gorm:"size:20;not null;default:'active'" json:"status"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (BondingState) TableName() string {
	return "bonding_states"
}

// IsComplete reports whether bonding has fully completed (terminal state).
func (s *BondingState) IsComplete() bool {
	return s.Status == BondingStatusComplete
}
