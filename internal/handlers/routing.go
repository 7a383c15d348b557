package handlers

import (
	"net/http"

	"launchcontrol/internal/handlers/business"
	"launchcontrol/internal/models"
	dbconfig "launchcontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// SetRoutingConfigRequest represents the request body for updating a
// token's fee routing
type SetRoutingConfigRequest struct {
	Mode         string `json:"mode" binding:"required"`
	PayoutWallet string `json:"payout_wallet"`
}

// GetRoutingConfig returns a token's routing config with its resolved
// destination
func GetRoutingConfig(c *gin.Context) {
	mint := c.Param("mint")

	var cfg models.RoutingConfig
	if err := dbconfig.DB.Where("mint = ?", mint).First(&cfg).Error; err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"routing_config": cfg}
	if mode, err := business.ParseRouteMode(cfg.Mode, cfg.PayoutWallet); err == nil {
		if instruction, err := business.ResolveRoute(mode, mint); err == nil {
			resp["resolved"] = instruction
		}
	}
	c.JSON(http.StatusOK, resp)
}

// SetRoutingConfig updates a token's fee routing mode. The mode is parsed
// before anything is written, so a send_to_wallet config can never land
// without its payout wallet.
func SetRoutingConfig(c *gin.Context) {
	mint := c.Param("mint")

	var request SetRoutingConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := business.ParseRouteMode(request.Mode, request.PayoutWallet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cfg models.RoutingConfig
	if err := dbconfig.DB.Where("mint = ?", mint).First(&cfg).Error; err != nil {
		respondError(c, err)
		return
	}

	cfg.Mode = request.Mode
	cfg.PayoutWallet = request.PayoutWallet
	if err := dbconfig.DB.Save(&cfg).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
