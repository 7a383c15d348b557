package handlers

import (
	"net/http"
	"strconv"

	"launchcontrol/internal/handlers/business"
	"launchcontrol/internal/models"
	dbconfig "launchcontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// CreateTokenRequest represents the request body for launching a token
type CreateTokenRequest struct {
	Name         string `json:"name" binding:"required"`
	Ticker       string `json:"ticker" binding:"required"`
	Mint         string `json:"mint" binding:"required"`
	Creator      string `json:"creator" binding:"required"`
	ImageURI     string `json:"image_uri"`
	Description  string `json:"description"`
	RoutingMode  string `json:"routing_mode"`
	PayoutWallet string `json:"payout_wallet"`
}

// CreateToken launches a new token on the bonding curve
func CreateToken(c *gin.Context) {
	var request CreateTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := business.LaunchToken(c.Request.Context(), dbconfig.DB, Exec, business.LaunchRequest{
		Name:         request.Name,
		Ticker:       request.Ticker,
		Mint:         request.Mint,
		Creator:      request.Creator,
		ImageURI:     request.ImageURI,
		Description:  request.Description,
		RoutingMode:  request.RoutingMode,
		PayoutWallet: request.PayoutWallet,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, token)
}

// ListTokens returns tokens newest first, paginated
func ListTokens(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var tokens []models.Token
	if err := dbconfig.DB.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&tokens).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// GetToken returns one token with its bonding state and routing config
func GetToken(c *gin.Context) {
	mint := c.Param("mint")

	var token models.Token
	if err := dbconfig.DB.Where("mint = ?", mint).First(&token).Error; err != nil {
		respondError(c, err)
		return
	}

	state, err := business.GetBondingState(dbconfig.DB, mint)
	if err != nil {
		respondError(c, err)
		return
	}

	var routing models.RoutingConfig
	if err := dbconfig.DB.Where("mint = ?", mint).First(&routing).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":          token,
		"bonding_state":  state,
		"routing_config": routing,
	})
}

// GetBondingProgress returns the bonding curve progress for a mint
func GetBondingProgress(c *gin.Context) {
	mint := c.Param("mint")

	state, err := business.GetBondingState(dbconfig.DB, mint)
	if err != nil {
		respondError(c, err)
		return
	}

	progress := float64(0)
	if state.TargetAmount > 0 {
		progress = float64(state.CollectedAmount) / float64(state.TargetAmount) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"collected":   state.CollectedAmount,
		"target":      state.TargetAmount,
		"progress":    progress,
		"is_complete": state.IsComplete(),
		"status":      state.Status,
	})
}

// GetTokenTrades returns the newest trades for a mint
func GetTokenTrades(c *gin.Context) {
	mint := c.Param("mint")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	trades, err := business.RecentTrades(dbconfig.DB, mint, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

// GetTokenHolders returns the top holders for a mint
func GetTokenHolders(c *gin.Context) {
	mint := c.Param("mint")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 500 {
		limit = 20
	}

	holders, err := business.TopHolders(dbconfig.DB, mint, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, holders)
}
