package main

import (
	"log"
	"os"

	"launchcontrol/internal/routes"
	"launchcontrol/pkg/config"
)

func main() {
	// Initialize database
	config.InitDB()

	// Run SQL migrations when asked; AutoMigrate covers development
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		config.ExecuteMigrations()
	}

	// Initialize RabbitMQ (optional, will log warning if not configured)
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer func() {
			if config.RabbitMQ != nil {
				config.RabbitMQ.Close()
			}
		}()
		log.Println("RabbitMQ initialized successfully")
	} else {
		log.Println("RabbitMQ not configured, finalization relies on the recovery scheduler")
	}

	// Set up router
	r := routes.SetupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
