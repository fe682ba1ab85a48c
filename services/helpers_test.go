package services

import (
	"testing"
	"time"

	"nova-stays-server/models"
	"nova-stays-server/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	return db
}

func createTestProperty(t *testing.T, db *gorm.DB) *models.Property {
	t.Helper()

	property := &models.Property{
		Title:    "Casa del Mar",
		City:     "Punta del Este",
		Country:  "UY",
		Capacity: 6,
		Currency: "USD",
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// fullYearSeason gives a property one period covering every day of the year.
func fullYearSeason(t *testing.T, db *gorm.DB, propertyID uint, price float64) {
	t.Helper()

	period := models.SeasonPeriod{
		PropertyID:    propertyID,
		SeasonType:    models.SeasonMid,
		StartDayMonth: "01-01",
		EndDayMonth:   "31-12",
		PricePerNight: price,
		MinimumNights: 1,
	}
	require.NoError(t, db.Create(&period).Error)
}
