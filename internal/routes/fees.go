package routes

import (
	"launchcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupFeeRoutes sets up all routes related to claimable fee balances
func SetupFeeRoutes(r *gin.Engine) {
	fees := r.Group("/fees")
	{
		fees.GET("/claimable", handlers.GetClaimableFees)
		fees.POST("/claim", handlers.ClaimFees)
	}
}
