package models

import (
	"time"
)

// Finalization step cursor values. Step N done means every step <= N has
// completed; the orchestrator resumes from Step+1 after a partial failure.
const (
	FinalizeStepNone      = 0 // job created, nothing done yet
	FinalizeStepWithdrawn = 1 // bonding liquidity withdrawn
	FinalizeStepPoolMade  = 2 // permanent pool created
	FinalizeStepPaidOut   = 3 // creator/platform payouts sent
	FinalizeStepDone      = 4 // bonding state marked complete
)

// FinalizationJob persists the migration progress of one token so a crash
// mid-finalization leaves a resumable record instead of a stuck token.
type FinalizationJob struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Mint             string    `gorm:"size:100;uniqueIndex;not null" json:"mint"`
	Step             int       `gorm:"not null;default:0" json:"step"`
	PermanentPoolRef string    `gorm:"size:100;default:''" json:"permanent_pool_ref"`
	Attempts         int       `gorm:"not null;default:0" json:"attempts"`
	LastError        string    `gorm:"type:text;default:''" json:"last_error"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (FinalizationJob) TableName() string {
	return "finalization_jobs"
}
