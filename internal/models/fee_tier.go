package models

import (
	"time"
)

// FeeTier is one market-cap range of the fee schedule. McMax is NULL for
// the open-ended top tier. CreatorShareBps and PlatformShareBps are
// proportions of the total fee and must sum to FeeBps; the table loader
// rejects anything else.
type FeeTier struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	McMin            float64   `gorm:"not null;uniqueIndex:idx_fee_tier_mc_min" json:"mc_min"`
	McMax            *float64  `json:"mc_max"`
	FeeBps           int64     `gorm:"not null" json:"fee_bps"`
	CreatorShareBps  int64     `gorm:"not null" json:"creator_share_bps"`
	PlatformShareBps int64     `gorm:"not null" json:"platform_share_bps"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (FeeTier) TableName() string {
	return "fee_tiers"
}
