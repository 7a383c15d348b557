package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"launchcontrol/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// TranslateError is required: identity reservation relies on
	// gorm.ErrDuplicatedKey to detect the loser of an insert race.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db

	// Auto migrate all models
	err = DB.AutoMigrate(
		&models.Identity{},
		&models.Token{},
		&models.BondingState{},
		&models.RoutingConfig{},
		&models.FeeTier{},
		&models.ClaimableFee{},
		&models.Trade{},
		&models.Holder{},
		&models.FinalizationJob{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}
