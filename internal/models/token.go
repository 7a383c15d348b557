package models

import (
	"time"
)

// Token is the launched token record. BondingComplete flips false -> true
// exactly once, driven by the bonding state machine.
type Token struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Mint             string    `gorm:"size:100;uniqueIndex;not null" json:"mint"`
	Name             string    `gorm:"size:64;not null" json:"name"`
	Ticker           string    `gorm:"size:16;not null" json:"ticker"`
	ImageURI         string    `gorm:"type:text" json:"image_uri"`
	Description      string    `gorm:"type:text" json:"description"`
	Creator          string    `gorm:"size:100;not null" json:"creator"`
	Decimals         int       `gorm:"not null;default:9" json:"decimals"`
	TotalSupply      uint64    `gorm:"not null" json:"total_supply"`
	BondingComplete  bool      `gorm:"default:false" json:"bonding_complete"`
	PermanentPoolRef string    `gorm:"size:100;default:''" json:"permanent_pool_ref"`
	TotalCollected   int64     `gorm:"default:0" json:"total_collected"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Token) TableName() string {
	return "tokens"
}
