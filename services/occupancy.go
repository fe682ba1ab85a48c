package services

import (
	"time"

	"nova-stays-server/models"

	"gorm.io/gorm"
)

const (
	OccupancySourceCalendar = "calendar"
	OccupancySourceBooking  = "booking"
)

// OccupancyMark is one occupied calendar day with its origin.
type OccupancyMark struct {
	Date   time.Time `json:"date"`
	Source string    `json:"source"` // calendar, booking
	Reason string    `json:"reason"`
}

// OccupancyService merges calendar blocks and active bookings into a single
// occupied-date set. Pure reads, no side effects: the same stored state always
// yields the same set.
type OccupancyService struct {
	db *gorm.DB
}

func NewOccupancyService(db *gorm.DB) *OccupancyService {
	return &OccupancyService{db: db}
}

// OccupiedDates returns every occupied day of a property inside the half-open
// window [windowStart, windowEnd), keyed by "2006-01-02".
//
// Calendar blocks occupy the day they are stored on, last day included.
// Bookings occupy [checkIn, checkOut): the checkout day stays free so a
// back-to-back arrival can share the turnover day. A property with no rows
// (including an unknown property id) yields an empty set.
func (s *OccupancyService) OccupiedDates(propertyID uint, windowStart, windowEnd time.Time) (map[string]OccupancyMark, error) {
	windowStart = DateOnly(windowStart)
	windowEnd = DateOnly(windowEnd)

	occupied := make(map[string]OccupancyMark)
	if !windowStart.Before(windowEnd) {
		return occupied, nil
	}

	var blocks []models.CalendarBlock
	if err := s.db.
		Where("property_id = ? AND blocked_date >= ? AND blocked_date < ?", propertyID, windowStart, windowEnd).
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	for _, block := range blocks {
		day := DateOnly(block.BlockedDate)
		occupied[DateKey(day)] = OccupancyMark{
			Date:   day,
			Source: OccupancySourceCalendar,
			Reason: block.Reason,
		}
	}

	// Overlap rule: a booking intersects [a, b) iff checkIn < b && checkOut > a.
	var bookings []models.Booking
	if err := s.db.
		Where("property_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
			propertyID, models.BookingCancelled, windowEnd, windowStart).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	for _, booking := range bookings {
		start := DateOnly(booking.CheckIn)
		end := DateOnly(booking.CheckOut) // exclusive: departure day is a turnover day
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			if d.Before(windowStart) || !d.Before(windowEnd) {
				continue
			}
			key := DateKey(d)
			if _, exists := occupied[key]; exists {
				continue
			}
			occupied[key] = OccupancyMark{
				Date:   d,
				Source: OccupancySourceBooking,
				Reason: booking.ConfirmationCode,
			}
		}
	}

	return occupied, nil
}
