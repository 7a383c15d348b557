package business

import (
	"os"
	"testing"

	"launchcontrol/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to the database named by TEST_DATABASE_DSN and
// resets the tables under test. Tests needing a database skip when the
// variable is unset, so the pure-logic tests still run everywhere.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Identity{},
		&models.Token{},
		&models.BondingState{},
		&models.RoutingConfig{},
		&models.FeeTier{},
		&models.ClaimableFee{},
		&models.Trade{},
		&models.Holder{},
		&models.FinalizationJob{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	tables := []string{
		"identity_registry", "tokens", "bonding_states", "routing_config",
		"fee_tiers", "claimable_fees", "trades", "holders", "finalization_jobs",
	}
	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY").Error; err != nil {
			t.Fatalf("Failed to truncate %s: %v", table, err)
		}
	}

	return db
}
