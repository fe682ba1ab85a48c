package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"nova-stays-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// propertyLocks serializes check-then-insert per property so two concurrent
// booking requests cannot both observe "available" before either commits.
// Entries are reference-counted and removed when the last holder releases,
// so the map is bounded by in-flight bookings, not by property count.
type propertyLocks struct {
	mu    sync.Mutex
	locks map[uint]*propertyLock
}

type propertyLock struct {
	mu   sync.Mutex
	refs int
}

func (p *propertyLocks) acquire(propertyID uint) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[uint]*propertyLock)
	}
	l, ok := p.locks[propertyID]
	if !ok {
		l = &propertyLock{}
		p.locks[propertyID] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, propertyID)
		}
		p.mu.Unlock()
	}
}

type CreateBookingInput struct {
	PropertyID uint
	GuestID    uint
	CheckIn    time.Time
	CheckOut   time.Time
	NumGuests  int
	GuestName  string
	GuestEmail string
	GuestPhone string
	Note       string
}

type BookingService struct {
	db            *gorm.DB
	pricing       *PricingService
	notifications *NotificationService
	locks         propertyLocks
}

func NewBookingService(db *gorm.DB, pricing *PricingService, notifications *NotificationService) *BookingService {
	return &BookingService{db: db, pricing: pricing, notifications: notifications}
}

// spanConflicts applies the availability-check boundary rule. It is a
// deliberately separate query from OccupancyService.OccupiedDates because the
// boundary inclusion differs by call site:
//
//   - bookings: conflict iff checkIn < b AND checkOut > a (turnover day shared)
//   - calendar blocks: conflict only for days strictly inside (checkIn, checkOut);
//     a block exactly on checkIn is someone else's turnover day and does not
//     make the span unavailable, mirroring the booking rule. A block on the
//     checkOut day likewise never conflicts.
//   - the general occupancy window query (OccupiedDates) includes blocks on any
//     day of the window, since calendar display wants every stored block shown.
func spanConflicts(tx *gorm.DB, propertyID uint, checkIn, checkOut time.Time) (bool, error) {
	var bookingCount int64
	if err := tx.Model(&models.Booking{}).
		Where("property_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
			propertyID, models.BookingCancelled, checkOut, checkIn).
		Count(&bookingCount).Error; err != nil {
		return false, err
	}
	if bookingCount > 0 {
		return true, nil
	}

	var blockCount int64
	if err := tx.Model(&models.CalendarBlock{}).
		Where("property_id = ? AND blocked_date > ? AND blocked_date < ?",
			propertyID, checkIn, checkOut).
		Count(&blockCount).Error; err != nil {
		return false, err
	}
	return blockCount > 0, nil
}

// CheckAvailability answers "is this exact span bookable right now".
func (s *BookingService) CheckAvailability(propertyID uint, checkIn, checkOut time.Time) (bool, error) {
	checkIn = DateOnly(checkIn)
	checkOut = DateOnly(checkOut)
	if !checkIn.Before(checkOut) {
		return false, ErrInvalidSpan
	}
	conflict, err := spanConflicts(s.db, propertyID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

// Create performs the conflict check and the insert in one transaction,
// serialized per property, and fails fast on any storage error: booking
// creation is never retried internally to avoid double-booking risk.
func (s *BookingService) Create(input CreateBookingInput) (*models.Booking, error) {
	checkIn := DateOnly(input.CheckIn)
	checkOut := DateOnly(input.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidSpan
	}
	if input.PropertyID == 0 {
		return nil, fmt.Errorf("%w: missing property id", ErrInvalidSpan)
	}

	var property models.Property
	if err := s.db.First(&property, input.PropertyID).Error; err != nil {
		return nil, err
	}

	quote, err := s.pricing.Quote(input.PropertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if quote.HasUnderspecifiedNights {
		return nil, ErrUnpricedNights
	}

	unlock := s.locks.acquire(input.PropertyID)
	defer unlock()

	booking := &models.Booking{
		PropertyID:       input.PropertyID,
		GuestID:          input.GuestID,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		NumGuests:        input.NumGuests,
		GuestName:        input.GuestName,
		GuestEmail:       input.GuestEmail,
		GuestPhone:       input.GuestPhone,
		Note:             input.Note,
		TotalPrice:       quote.TotalPrice,
		Status:           models.BookingActive,
		ConfirmationCode: uuid.NewString(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		conflict, err := spanConflicts(tx, input.PropertyID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if conflict {
			return ErrBookingConflict
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		s.notifications.NotifyBookingCreated(&property, booking)
	}

	return booking, nil
}

// Cancel flips a booking to cancelled, freeing its dates.
func (s *BookingService) Cancel(bookingID uint, guestID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}
	if guestID != 0 && booking.GuestID != guestID {
		return nil, gorm.ErrRecordNotFound
	}
	if booking.Status == models.BookingCancelled {
		return &booking, nil
	}

	booking.Status = models.BookingCancelled
	if err := s.db.Save(&booking).Error; err != nil {
		return nil, err
	}

	if s.notifications != nil {
		var property models.Property
		if err := s.db.First(&property, booking.PropertyID).Error; err == nil {
			s.notifications.NotifyBookingCancelled(&property, &booking)
		}
	}

	return &booking, nil
}

// IsConflict reports whether err is the booking business-rule failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrBookingConflict)
}
