package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nova-stays-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChannelService(db *gorm.DB) *ChannelSyncService {
	return NewChannelSyncService(db, NewSeasonService(db), 1.3, 5*time.Second)
}

func TestParseFeedSkipsNonObjectValues(t *testing.T) {
	payload := []byte(`{
		"status": "ok",
		"error": null,
		"warnings": [],
		"20250101": {"p1": "1000", "m": "2"},
		"20250102": {"p1": "1000"}
	}`)

	feed, err := ParseFeed(payload)
	require.NoError(t, err)

	assert.Contains(t, feed, "20250101")
	assert.Contains(t, feed, "20250102")
	assert.NotContains(t, feed, "status")
	assert.NotContains(t, feed, "error", "null values decode into a struct without error and must be filtered")
	assert.NotContains(t, feed, "warnings")
}

func TestParseFeedMalformedPayload(t *testing.T) {
	_, err := ParseFeed([]byte(`not json`))
	assert.Error(t, err)
}

func TestNormalizeRunLengthEncoding(t *testing.T) {
	db := newTestDB(t)
	svc := newChannelService(db)

	feed := RawFeed{
		"20250101": {Price: "1000", MinNights: "2"},
		"20250102": {Price: "1000", MinNights: "2"},
		"20250103": {Price: "1500", MinNights: "2"},
		"checkin":  {}, // stray non-date key
	}

	periods := svc.Normalize(feed)
	require.Len(t, periods, 2)

	assert.Equal(t, "01-01", periods[0].StartDayMonth, "year is discarded")
	assert.Equal(t, "02-01", periods[0].EndDayMonth)
	assert.Equal(t, 1000.0, periods[0].SourcePrice)
	assert.InDelta(t, 1300.0, periods[0].PricePerNight, 0.001, "markup applied")
	assert.Equal(t, 2, periods[0].MinimumNights)
	assert.Equal(t, "channel", periods[0].Origin)

	assert.Equal(t, "03-01", periods[1].StartDayMonth)
	assert.Equal(t, "03-01", periods[1].EndDayMonth)
	assert.Equal(t, 1500.0, periods[1].SourcePrice)
}

func TestNormalizeGapBreaksRun(t *testing.T) {
	db := newTestDB(t)
	svc := newChannelService(db)

	feed := RawFeed{
		"20250601": {Price: "900", MinNights: "2"},
		"20250602": {Price: "900", MinNights: "2"},
		// June 3 missing
		"20250604": {Price: "900", MinNights: "2"},
	}

	periods := svc.Normalize(feed)
	require.Len(t, periods, 2, "a calendar gap splits equal-priced runs")
	assert.Equal(t, "02-06", periods[0].EndDayMonth)
	assert.Equal(t, "04-06", periods[1].StartDayMonth)
}

func TestNormalizeMinNightsChangeBreaksRun(t *testing.T) {
	db := newTestDB(t)
	svc := newChannelService(db)

	feed := RawFeed{
		"20250601": {Price: "900", MinNights: "2"},
		"20250602": {Price: "900", MinNights: "5"},
	}

	periods := svc.Normalize(feed)
	assert.Len(t, periods, 2)
}

func TestNormalizeDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newChannelService(db)

	feed := RawFeed{
		"20250601": {}, // absent price and minimum
	}

	periods := svc.Normalize(feed)
	require.Len(t, periods, 1)
	assert.Equal(t, 0.0, periods[0].SourcePrice, "absent price is the unset sentinel")
	assert.Equal(t, 0.0, periods[0].PricePerNight)
	assert.Equal(t, 2, periods[0].MinimumNights, "absent minimum defaults to 2")
}

func TestBaselineSeason(t *testing.T) {
	assert.Equal(t, models.SeasonPeak, BaselineSeason(models.DayMonth{Day: 25, Month: 12}))
	assert.Equal(t, models.SeasonPeak, BaselineSeason(models.DayMonth{Day: 10, Month: 2}))
	assert.Equal(t, models.SeasonMid, BaselineSeason(models.DayMonth{Day: 1, Month: 3}))
	assert.Equal(t, models.SeasonMid, BaselineSeason(models.DayMonth{Day: 15, Month: 11}))
	assert.Equal(t, models.SeasonLow, BaselineSeason(models.DayMonth{Day: 15, Month: 6}))
	assert.Equal(t, models.SeasonLow, BaselineSeason(models.DayMonth{Day: 1, Month: 10}))
}

func TestNormalizeClassification(t *testing.T) {
	db := newTestDB(t)
	svc := newChannelService(db)

	// Three mid-baseline periods (March): 1000, 1000 and 1300 average 1100.
	// 1300 is above 1.15x but below 1.5x of that, so it becomes holiday;
	// 1000 sits within the 15% band and stays mid. The December period stays
	// peak regardless of price, and the overpriced July low period becomes
	// holiday.
	feed := RawFeed{
		"20250301": {Price: "1000", MinNights: "2"},
		"20250310": {Price: "1000", MinNights: "2"},
		"20250320": {Price: "1300", MinNights: "2"},
		"20251225": {Price: "9999", MinNights: "5"},
		"20250601": {Price: "500", MinNights: "2"},
		"20250701": {Price: "700", MinNights: "2"},
	}

	periods := svc.Normalize(feed)
	byStart := make(map[string]models.SeasonPeriod)
	for _, p := range periods {
		byStart[p.StartDayMonth] = p
	}

	assert.Equal(t, models.SeasonMid, byStart["01-03"].SeasonType)
	assert.Equal(t, models.SeasonMid, byStart["10-03"].SeasonType)
	assert.Equal(t, models.SeasonHoliday, byStart["20-03"].SeasonType)
	assert.Equal(t, models.SeasonPeak, byStart["25-12"].SeasonType)

	// low average is 600, and 700 exceeds the 15% band
	assert.Equal(t, models.SeasonLow, byStart["01-06"].SeasonType)
	assert.Equal(t, models.SeasonHoliday, byStart["01-07"].SeasonType)
}

func TestNormalizePrimeUpgrade(t *testing.T) {
	db := newTestDB(t)
	svc := newChannelService(db)

	// mid average is 1833.33, and 3500 exceeds 1.5x of it
	feed := RawFeed{
		"20250301": {Price: "1000", MinNights: "2"},
		"20250310": {Price: "1000", MinNights: "2"},
		"20250320": {Price: "3500", MinNights: "2"},
	}

	periods := svc.Normalize(feed)
	byStart := make(map[string]models.SeasonPeriod)
	for _, p := range periods {
		byStart[p.StartDayMonth] = p
	}

	assert.Equal(t, models.SeasonPrime, byStart["20-03"].SeasonType)
}

func TestNormalizeZeroPricedKeepsBaseline(t *testing.T) {
	db := newTestDB(t)
	svc := newChannelService(db)

	feed := RawFeed{
		"20250301": {Price: "1000", MinNights: "2"},
		"20250315": {MinNights: "2"}, // unpriced
	}

	periods := svc.Normalize(feed)
	byStart := make(map[string]models.SeasonPeriod)
	for _, p := range periods {
		byStart[p.StartDayMonth] = p
	}

	assert.Equal(t, models.SeasonMid, byStart["15-03"].SeasonType, "no deviation analysis for unpriced periods")
}

func TestSyncPropertyReplacesSeasonTable(t *testing.T) {
	db := newTestDB(t)
	property := createTestProperty(t, db)
	svc := newChannelService(db)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","20250101":{"p1":"1000","m":"2"},"20250102":{"p1":"1000","m":"2"},"20250103":{"p1":"1500","m":"2"}}`)
	}))
	defer server.Close()

	// seed a stale season table that must vanish after sync
	fullYearSeason(t, db, property.ID, 777)

	property.ChannelFeedURL = server.URL
	require.NoError(t, db.Save(property).Error)

	require.NoError(t, svc.SyncProperty(context.Background(), property))

	var stored []models.SeasonPeriod
	require.NoError(t, db.Where("property_id = ?", property.ID).Order("id ASC").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, "01-01", stored[0].StartDayMonth)
	assert.InDelta(t, 1300.0, stored[0].PricePerNight, 0.001)
	assert.Equal(t, 1000.0, stored[0].SourcePrice)
}

func TestSyncAllIsolatesFailures(t *testing.T) {
	db := newTestDB(t)
	svc := newChannelService(db)

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"20250101":{"p1":"1000","m":"2"}}`)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	okProp := createTestProperty(t, db)
	okProp.ChannelFeedURL = good.URL
	require.NoError(t, db.Save(okProp).Error)

	badProp := createTestProperty(t, db)
	badProp.ChannelFeedURL = bad.URL
	require.NoError(t, db.Save(badProp).Error)

	report, err := svc.SyncAll(context.Background())
	require.NoError(t, err, "a failing property must not abort the run")
	assert.Equal(t, 1, report.Success)
	assert.Equal(t, 1, report.Failed)

	var run models.SyncRun
	require.NoError(t, db.Where("kind = ?", models.SyncKindChannel).First(&run).Error)
	assert.Equal(t, 1, run.Success)
	assert.Equal(t, 1, run.Failed)
}
