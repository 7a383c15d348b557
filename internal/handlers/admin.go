package handlers

import (
	"errors"
	"net/http"

	"launchcontrol/internal/handlers/business"
	"launchcontrol/internal/models"
	dbconfig "launchcontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// FeeTierRequest mirrors one fee schedule row in the replace payload.
type FeeTierRequest struct {
	McMin            float64  `json:"mc_min"`
	McMax            *float64 `json:"mc_max"`
	FeeBps           int64    `json:"fee_bps" binding:"required"`
	CreatorShareBps  int64    `json:"creator_share_bps"`
	PlatformShareBps int64    `json:"platform_share_bps"`
}

// ReplaceFeeTiersRequest is the full replacement fee schedule.
type ReplaceFeeTiersRequest struct {
	Tiers []FeeTierRequest `json:"tiers" binding:"required"`
}

// GetPlatformStats returns aggregate launch and fee figures.
func GetPlatformStats(c *gin.Context) {
	db := dbconfig.DB

	var totalTokens int64
	if err := db.Model(&models.Token{}).Count(&totalTokens).Error; err != nil {
		respondError(c, err)
		return
	}

	var completedBondings int64
	if err := db.Model(&models.BondingState{}).
		Where("status = ?", models.BondingStatusComplete).
		Count(&completedBondings).Error; err != nil {
		respondError(c, err)
		return
	}

	var totalCollected int64
	if err := db.Model(&models.BondingState{}).
		Select("COALESCE(SUM(collected_amount), 0)").
		Scan(&totalCollected).Error; err != nil {
		respondError(c, err)
		return
	}

	var platformFees int64
	if err := db.Model(&models.ClaimableFee{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("fee_kind = ?", models.FeeKindPlatform).
		Scan(&platformFees).Error; err != nil {
		respondError(c, err)
		return
	}

	var creatorFees int64
	if err := db.Model(&models.ClaimableFee{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("fee_kind = ?", models.FeeKindCreator).
		Scan(&creatorFees).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_tokens":          totalTokens,
		"completed_bondings":    completedBondings,
		"total_collected":       totalCollected,
		"platform_fees_accrued": platformFees,
		"creator_fees_accrued":  creatorFees,
		"bonding_target":        business.BondingTargetLamports,
	})
}

// GetFeeTiers returns the active fee schedule, seeding the defaults when
// the table is empty.
func GetFeeTiers(c *gin.Context) {
	table, err := business.LoadFeeTierTable(dbconfig.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": table.Tiers()})
}

// ReplaceFeeTiersHandler swaps the fee schedule for a new one. The table
// is validated before the old rows are touched.
func ReplaceFeeTiersHandler(c *gin.Context) {
	var request ReplaceFeeTiersRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tiers := make([]models.FeeTier, 0, len(request.Tiers))
	for _, t := range request.Tiers {
		tiers = append(tiers, models.FeeTier{
			McMin:            t.McMin,
			McMax:            t.McMax,
			FeeBps:           t.FeeBps,
			CreatorShareBps:  t.CreatorShareBps,
			PlatformShareBps: t.PlatformShareBps,
		})
	}

	if err := business.ReplaceFeeTiers(dbconfig.DB, tiers); err != nil {
		if errors.Is(err, business.ErrInvalidTierTable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}
