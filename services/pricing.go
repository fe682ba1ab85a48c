package services

import (
	"math"
	"time"

	"nova-stays-server/models"

	"gorm.io/gorm"
)

// NightPrice is one night of a quote breakdown.
type NightPrice struct {
	Date        time.Time `json:"date"`
	Price       float64   `json:"price"`
	SeasonType  string    `json:"seasonType"`
	IsZeroPrice bool      `json:"isZeroPrice"`
}

// Quote prices a [checkIn, checkOut) span night by night. When any night has
// no matching season period, or matches the zero "unpriced" sentinel,
// HasUnderspecifiedNights is set and that night contributes 0 to the total.
// Callers doing price-sorted listings must exclude such quotes entirely
// rather than show a partial total.
type Quote struct {
	PropertyID              uint         `json:"propertyID"`
	CheckIn                 time.Time    `json:"checkIn"`
	CheckOut                time.Time    `json:"checkOut"`
	Nights                  int          `json:"nights"`
	TotalPrice              float64      `json:"totalPrice"`
	AveragePerNight         float64      `json:"averagePerNight"`
	Breakdown               []NightPrice `json:"breakdown"`
	HasUnderspecifiedNights bool         `json:"hasUnderspecifiedNights"`
}

type PricingService struct {
	db *gorm.DB
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// ResolveNightPrice finds the season price for a single day-month. Periods
// are scanned in stored order and the first covering period wins; the write
// path guarantees the table is overlap-free, so the order is only a
// formality. Returns matched=false when no period covers the day.
func ResolveNightPrice(dm models.DayMonth, periods []models.SeasonPeriod) (price float64, seasonType string, matched bool) {
	for i := range periods {
		if periods[i].Covers(dm) {
			return periods[i].PricePerNight, periods[i].SeasonType, true
		}
	}
	return 0, "", false
}

// SeasonPeriods loads a property's season table in stored (insertion) order.
func (s *PricingService) SeasonPeriods(propertyID uint) ([]models.SeasonPeriod, error) {
	var periods []models.SeasonPeriod
	err := s.db.
		Where("property_id = ?", propertyID).
		Order("id ASC").
		Find(&periods).Error
	return periods, err
}

// Quote prices the span [checkIn, checkOut). The departure night is never
// charged. Rounding happens only at AveragePerNight (nearest whole currency
// unit); per-night prices are carried as-is.
func (s *PricingService) Quote(propertyID uint, checkIn, checkOut time.Time) (*Quote, error) {
	checkIn = DateOnly(checkIn)
	checkOut = DateOnly(checkOut)
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidSpan
	}

	periods, err := s.SeasonPeriods(propertyID)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		PropertyID: propertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Nights:     NightsBetween(checkIn, checkOut),
	}

	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		dm := models.DayMonth{Day: d.Day(), Month: int(d.Month())}
		price, seasonType, matched := ResolveNightPrice(dm, periods)

		night := NightPrice{Date: d, Price: price, SeasonType: seasonType}
		if !matched || price == 0 {
			// No fallback substitution: the night stays at 0 and the quote
			// is flagged as underspecified.
			night.Price = 0
			night.IsZeroPrice = true
			quote.HasUnderspecifiedNights = true
		}

		quote.TotalPrice += night.Price
		quote.Breakdown = append(quote.Breakdown, night)
	}

	quote.AveragePerNight = math.Round(quote.TotalPrice / float64(quote.Nights))

	return quote, nil
}
