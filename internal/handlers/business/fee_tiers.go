package business

import (
	"fmt"
	"sort"

	"launchcontrol/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultFeeTiers is the schedule seeded when the fee_tiers table is
// empty. Shares are proportions of the total fee and sum to fee_bps in
// every tier.
var DefaultFeeTiers = []models.FeeTier{
	{McMin: 0, McMax: f64(100_000), FeeBps: 100, CreatorShareBps: 10, PlatformShareBps: 90},
	{McMin: 100_000, McMax: f64(500_000), FeeBps: 80, CreatorShareBps: 15, PlatformShareBps: 65},
	{McMin: 500_000, McMax: f64(1_000_000), FeeBps: 60, CreatorShareBps: 20, PlatformShareBps: 40},
	{McMin: 1_000_000, McMax: f64(5_000_000), FeeBps: 40, CreatorShareBps: 25, PlatformShareBps: 15},
	{McMin: 5_000_000, McMax: nil, FeeBps: 30, CreatorShareBps: 20, PlatformShareBps: 10},
}

func f64(v float64) *float64 { return &v }

// FeeTierTable is a validated, immutable fee schedule ordered by mc_min.
type FeeTierTable struct {
	tiers []models.FeeTier
}

// NewFeeTierTable validates that the tiers partition [0, inf) with no gaps
// or overlaps and that every tier's shares sum to its fee_bps. A table
// that fails validation is a configuration error, rejected at load time so
// TierFor can never silently misprice a trade.
func NewFeeTierTable(tiers []models.FeeTier) (*FeeTierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidTierTable)
	}

	sorted := make([]models.FeeTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].McMin < sorted[j].McMin })

	if sorted[0].McMin != 0 {
		return nil, fmt.Errorf("%w: first tier starts at %v, want 0", ErrInvalidTierTable, sorted[0].McMin)
	}

	for i, tier := range sorted {
		if tier.FeeBps <= 0 || tier.FeeBps > 10_000 {
			return nil, fmt.Errorf("%w: tier %d has fee_bps %d", ErrInvalidTierTable, i, tier.FeeBps)
		}
		if tier.CreatorShareBps < 0 || tier.PlatformShareBps < 0 ||
			tier.CreatorShareBps+tier.PlatformShareBps != tier.FeeBps {
			return nil, fmt.Errorf("%w: tier %d shares %d+%d do not sum to fee_bps %d",
				ErrInvalidTierTable, i, tier.CreatorShareBps, tier.PlatformShareBps, tier.FeeBps)
		}

		last := i == len(sorted)-1
		if last {
			if tier.McMax != nil {
				return nil, fmt.Errorf("%w: top tier must be open-ended", ErrInvalidTierTable)
			}
			continue
		}
		if tier.McMax == nil {
			return nil, fmt.Errorf("%w: tier %d is open-ended but not last", ErrInvalidTierTable, i)
		}
		if *tier.McMax <= tier.McMin {
			return nil, fmt.Errorf("%w: tier %d range [%v, %v) is empty", ErrInvalidTierTable, i, tier.McMin, *tier.McMax)
		}
		if *tier.McMax != sorted[i+1].McMin {
			return nil, fmt.Errorf("%w: gap or overlap between %v and %v", ErrInvalidTierTable, *tier.McMax, sorted[i+1].McMin)
		}
	}

	return &FeeTierTable{tiers: sorted}, nil
}

// LoadFeeTierTable reads the fee schedule from the store, seeding the
// default schedule when the table is empty. Migrations seed the same
// schedule, so this path only runs on stores migrated out of band.
// Racing seeders collide on the mc_min unique index and converge on one
// schedule: losers insert nothing and re-read the winner's rows.
func LoadFeeTierTable(db *gorm.DB) (*FeeTierTable, error) {
	var tiers []models.FeeTier
	if err := db.Order("mc_min ASC").Find(&tiers).Error; err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		seed := make([]models.FeeTier, len(DefaultFeeTiers))
		copy(seed, DefaultFeeTiers)
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return nil, err
		}
		if err := db.Order("mc_min ASC").Find(&tiers).Error; err != nil {
			return nil, err
		}
	}
	return NewFeeTierTable(tiers)
}

// ReplaceFeeTiers swaps the stored schedule for a new one, validating
// first so a bad table can never land.
func ReplaceFeeTiers(db *gorm.DB, tiers []models.FeeTier) error {
	if _, err := NewFeeTierTable(tiers); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.FeeTier{}).Error; err != nil {
			return err
		}
		return tx.Create(&tiers).Error
	})
}

// Tiers returns the validated schedule in ascending order.
func (t *FeeTierTable) Tiers() []models.FeeTier {
	return t.tiers
}

// TierFor selects the tier with the greatest mc_min <= marketCap. The
// constructor guarantees full coverage of [0, inf), so ErrNoTierMatched is
// only reachable with a negative market cap.
func (t *FeeTierTable) TierFor(marketCap float64) (models.FeeTier, error) {
	for i := len(t.tiers) - 1; i >= 0; i-- {
		if t.tiers[i].McMin <= marketCap {
			return t.tiers[i], nil
		}
	}
	return models.FeeTier{}, fmt.Errorf("%w: market cap %v", ErrNoTierMatched, marketCap)
}

// FeeSplit is the fee breakdown of one trade, in lamports.
type FeeSplit struct {
	Total    int64 `json:"total"`
	Creator  int64 `json:"creator"`
	Platform int64 `json:"platform"`
}

// SplitFee computes the fee for a gross amount under a tier. All divisions
// floor; the rounding residual goes to the platform so Creator + Platform
// always equals Total and the payout side is never underfunded.
func SplitFee(grossAmount int64, tier models.FeeTier) FeeSplit {
	total := grossAmount * tier.FeeBps / 10_000
	creator := total * tier.CreatorShareBps / tier.FeeBps
	return FeeSplit{
		Total:    total,
		Creator:  creator,
		Platform: total - creator,
	}
}
