package services

import (
	"time"
)

// Slot is one bookable candidate span found by FindAvailableSlots.
type Slot struct {
	CheckIn                 time.Time `json:"checkIn"`
	CheckOut                time.Time `json:"checkOut"`
	Nights                  int       `json:"nights"`
	TotalPrice              float64   `json:"totalPrice"`
	HasUnderspecifiedNights bool      `json:"hasUnderspecifiedNights"`
}

// SlotSearchService scans a window for contiguous free spans. The scan is
// naive on purpose: a single property's calendar is at most a few hundred
// days, so the O(window * nights) membership walk is plenty.
type SlotSearchService struct {
	occupancy *OccupancyService
	pricing   *PricingService
	now       func() time.Time
}

func NewSlotSearchService(occupancy *OccupancyService, pricing *PricingService) *SlotSearchService {
	return &SlotSearchService{
		occupancy: occupancy,
		pricing:   pricing,
		now:       time.Now,
	}
}

// FindAvailableSlots returns up to limit free spans of exactly nights nights
// inside [windowStart, windowEnd), earliest check-in first. Candidate starts
// are clamped to today: a slot never begins in the past, whatever window the
// caller asked for. Spans must fit inside the window. Non-positive nights or
// limit are rejected, never coerced.
func (s *SlotSearchService) FindAvailableSlots(propertyID uint, windowStart, windowEnd time.Time, nights, limit int) ([]Slot, error) {
	if nights < 1 || limit < 1 {
		return nil, ErrInvalidSpan
	}

	windowStart = DateOnly(windowStart)
	windowEnd = DateOnly(windowEnd)

	today := DateOnly(s.now())
	if windowStart.Before(today) {
		windowStart = today
	}
	if !windowStart.Before(windowEnd) {
		return []Slot{}, nil
	}

	occupied, err := s.occupancy.OccupiedDates(propertyID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, limit)
	lastStart := windowEnd.AddDate(0, 0, -nights)

	for start := windowStart; !start.After(lastStart); start = start.AddDate(0, 0, 1) {
		free := true
		for i := 0; i < nights; i++ {
			if _, taken := occupied[DateKey(start.AddDate(0, 0, i))]; taken {
				free = false
				break
			}
		}
		if !free {
			continue
		}

		checkOut := start.AddDate(0, 0, nights)
		quote, err := s.pricing.Quote(propertyID, start, checkOut)
		if err != nil {
			return nil, err
		}

		slots = append(slots, Slot{
			CheckIn:                 start,
			CheckOut:                checkOut,
			Nights:                  nights,
			TotalPrice:              quote.TotalPrice,
			HasUnderspecifiedNights: quote.HasUnderspecifiedNights,
		})
		if len(slots) >= limit {
			break
		}
	}

	return slots, nil
}
