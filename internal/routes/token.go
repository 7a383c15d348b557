package routes

import (
	"launchcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupTokenRoutes sets up all routes related to token launch and lookup
func SetupTokenRoutes(r *gin.Engine) {
	tokens := r.Group("/tokens")
	{
		tokens.POST("", handlers.CreateToken)
		tokens.GET("", handlers.ListTokens)
		tokens.GET("/:mint", handlers.GetToken)
		tokens.GET("/:mint/progress", handlers.GetBondingProgress)
		tokens.GET("/:mint/trades", handlers.GetTokenTrades)
		tokens.GET("/:mint/holders", handlers.GetTokenHolders)
		tokens.GET("/:mint/routing", handlers.GetRoutingConfig)
		tokens.PUT("/:mint/routing", handlers.SetRoutingConfig)
	}

	identity := r.Group("/identity")
	{
		identity.GET("/check", handlers.CheckIdentity)
	}
}
