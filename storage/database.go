package storage

import (
	"fmt"
	"log"
	"os"

	"nova-stays-server/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres connection and returns the handle. There is no
// package-level DB: callers own the handle and pass it to services explicitly.
func Connect() (*gorm.DB, error) {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING environment variable is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error connecting to db: %w", err)
	}

	return db, nil
}

// Migrate runs auto-migrations for every model the server persists.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.SeasonPeriod{},
		&models.Booking{},
		&models.CalendarBlock{},
		&models.Notification{},
		&models.SyncRun{},
	)
}

// Initialize connects and migrates in one step.
func Initialize() (*gorm.DB, error) {
	db, err := Connect()
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
