package routes

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter() *gin.Engine {
	r := gin.Default()

	// Add health check endpoint
	r.Any("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})

	// Configure CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Get allowed origins from environment variable
		// Format: comma-separated list, e.g., "http://localhost:3000,http://localhost:3001"
		allowedOriginsStr := os.Getenv("ALLOWED_ORIGINS")
		var allowedOrigins []string

		if allowedOriginsStr != "" {
			origins := strings.Split(allowedOriginsStr, ",")
			for _, o := range origins {
				trimmed := strings.TrimSpace(o)
				if trimmed != "" {
					allowedOrigins = append(allowedOrigins, trimmed)
				}
			}
		}

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes for each module
	SetupTokenRoutes(r)
	SetupTradingRoutes(r)
	SetupFeeRoutes(r)
	SetupAdminRoutes(r)

	return r
}
