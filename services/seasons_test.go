package services

import (
	"testing"

	"nova-stays-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceSeasonTable(t *testing.T) {
	db := newTestDB(t)
	property := createTestProperty(t, db)
	svc := NewSeasonService(db)

	first := []models.SeasonPeriod{
		{SeasonType: models.SeasonLow, StartDayMonth: "01-03", EndDayMonth: "30-11", PricePerNight: 800, MinimumNights: 2},
		{SeasonType: models.SeasonPeak, StartDayMonth: "01-12", EndDayMonth: "28-02", PricePerNight: 2500, MinimumNights: 5},
	}
	_, err := svc.Replace(property.ID, first)
	require.NoError(t, err)

	second := []models.SeasonPeriod{
		{SeasonType: models.SeasonMid, StartDayMonth: "01-04", EndDayMonth: "31-10", PricePerNight: 950, MinimumNights: 1},
	}
	_, err = svc.Replace(property.ID, second)
	require.NoError(t, err)

	stored, err := svc.ByProperty(property.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1, "replacement leaves no residual old periods")
	assert.Equal(t, "01-04", stored[0].StartDayMonth)
	assert.Equal(t, 950.0, stored[0].PricePerNight)
}

func TestReplaceRejectsOverlappingPeriods(t *testing.T) {
	db := newTestDB(t)
	property := createTestProperty(t, db)
	svc := NewSeasonService(db)

	_, err := svc.Replace(property.ID, []models.SeasonPeriod{
		{SeasonType: models.SeasonLow, StartDayMonth: "01-03", EndDayMonth: "30-06", PricePerNight: 800, MinimumNights: 1},
		{SeasonType: models.SeasonMid, StartDayMonth: "15-06", EndDayMonth: "30-09", PricePerNight: 950, MinimumNights: 1},
	})
	assert.ErrorIs(t, err, ErrOverlappingPeriods)

	stored, err := svc.ByProperty(property.ID)
	require.NoError(t, err)
	assert.Empty(t, stored, "a rejected replace writes nothing")
}

func TestReplaceRejectsWrapOverlap(t *testing.T) {
	db := newTestDB(t)
	property := createTestProperty(t, db)
	svc := NewSeasonService(db)

	// the wrapping peak period reaches into January, colliding with the second
	_, err := svc.Replace(property.ID, []models.SeasonPeriod{
		{SeasonType: models.SeasonPeak, StartDayMonth: "22-12", EndDayMonth: "06-01", PricePerNight: 2500, MinimumNights: 3},
		{SeasonType: models.SeasonMid, StartDayMonth: "01-01", EndDayMonth: "28-02", PricePerNight: 1200, MinimumNights: 2},
	})
	assert.ErrorIs(t, err, ErrOverlappingPeriods)
}

func TestReplaceValidation(t *testing.T) {
	db := newTestDB(t)
	property := createTestProperty(t, db)
	svc := NewSeasonService(db)

	cases := []models.SeasonPeriod{
		{SeasonType: "winter", StartDayMonth: "01-01", EndDayMonth: "31-01", PricePerNight: 100, MinimumNights: 1},
		{SeasonType: models.SeasonLow, StartDayMonth: "32-01", EndDayMonth: "31-01", PricePerNight: 100, MinimumNights: 1},
		{SeasonType: models.SeasonLow, StartDayMonth: "01-01", EndDayMonth: "31-01", PricePerNight: -5, MinimumNights: 1},
		{SeasonType: models.SeasonLow, StartDayMonth: "01-01", EndDayMonth: "31-01", PricePerNight: 100, MinimumNights: 0},
	}
	for _, bad := range cases {
		_, err := svc.Replace(property.ID, []models.SeasonPeriod{bad})
		assert.ErrorIs(t, err, ErrInvalidPeriod, "period %+v should be rejected", bad)
	}

	// zero price is valid (the unpriced sentinel), unlike a negative price
	_, err := svc.Replace(property.ID, []models.SeasonPeriod{
		{SeasonType: models.SeasonLow, StartDayMonth: "01-01", EndDayMonth: "31-01", PricePerNight: 0, MinimumNights: 1},
	})
	assert.NoError(t, err)
}
