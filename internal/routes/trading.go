package routes

import (
	"launchcontrol/internal/handlers"
	"launchcontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTradingRoutes sets up the trade recording route.
// Trades are rate limited per IP so a single client cannot flood the
// execution service.
func SetupTradingRoutes(r *gin.Engine) {
	trades := r.Group("/trades")
	trades.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	}))
	trades.POST("", handlers.RecordTrade)
}
