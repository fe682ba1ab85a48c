package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nova-stays-server/models"
	"nova-stays-server/services"
	"nova-stays-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/stretchr/testify/assert"
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

func newQuoteServer(t *testing.T, db *gorm.DB) *httptest.Server {
	t.Helper()

	handler := &AvailabilityHandler{DB: db, Pricing: services.NewPricingService(db)}

	app := iris.New()
	app.Get("/api/property/{id:uint}/quote", handler.Quote)
	require.NoError(t, app.Build())

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return srv
}

func TestQuoteUnknownPropertyNotFound(t *testing.T) {
	db := newTestDB(t)
	srv := newQuoteServer(t, db)

	resp, err := http.Get(srv.URL + "/api/property/9999/quote?checkIn=2025-06-10&checkOut=2025-06-12")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "quoting a nonexistent property is not a silent empty quote")
}

func TestQuoteKnownProperty(t *testing.T) {
	db := newTestDB(t)

	property := models.Property{Title: "Casa del Mar", City: "Punta del Este", Country: "UY", Capacity: 4}
	require.NoError(t, db.Create(&property).Error)
	period := models.SeasonPeriod{
		PropertyID:    property.ID,
		SeasonType:    models.SeasonMid,
		StartDayMonth: "01-01",
		EndDayMonth:   "31-12",
		PricePerNight: 1000,
		MinimumNights: 1,
	}
	require.NoError(t, db.Create(&period).Error)

	srv := newQuoteServer(t, db)

	url := fmt.Sprintf("%s/api/property/%d/quote?checkIn=2025-06-10&checkOut=2025-06-12", srv.URL, property.ID)
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var quote services.Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
	assert.Equal(t, 2, quote.Nights)
	assert.Equal(t, 2000.0, quote.TotalPrice)
	assert.False(t, quote.HasUnderspecifiedNights)
}
