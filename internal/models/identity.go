package models

import (
	"time"
)

// Identity is the one-launch-only registry row. Uniqueness is enforced on
// the normalized (name_key, ticker_key) pair, not on the hash: the hash is
// kept for audit only, since a digest collision must never silently allow a
// duplicate launch.
type Identity struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	NameKey      string    `gorm:"size:64;not null;uniqueIndex:idx_identity_pair,priority:1" json:"name_key"`
	TickerKey    string    `gorm:"size:16;not null;uniqueIndex:idx_identity_pair,priority:2" json:"ticker_key"`
	IdentityHash string    `gorm:"size:64;not null" json:"identity_hash"`
	Mint         string    `gorm:"size:100;not null" json:"mint"`
	Creator      string    `gorm:"size:100;not null" json:"creator"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Identity) TableName() string {
	return "identity_registry"
}
