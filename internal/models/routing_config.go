package models

import (
	"time"
)

// RoutingConfig stores a token's fee routing choice. Mode holds the wire
// name of one of the seven routing modes; PayoutWallet is required iff the
// mode is send_to_wallet. Parsing into the typed mode set happens in
// business.ParseRouteMode.
type RoutingConfig struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Mint         string    `gorm:"size:100;uniqueIndex;not null" json:"mint"`
	Mode         string    `gorm:"size:20;not null" json:"mode"`
	PayoutWallet string    `gorm:"size:100;default:''" json:"payout_wallet"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (RoutingConfig) TableName() string {
	return "routing_config"
}
