package routes

import (
	"launchcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up platform stats and fee schedule management
func SetupAdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	{
		admin.GET("/stats", handlers.GetPlatformStats)
		admin.GET("/fee-tiers", handlers.GetFeeTiers)
		admin.PUT("/fee-tiers", handlers.ReplaceFeeTiersHandler)
	}
}
