package services

import (
	"fmt"

	"nova-stays-server/models"

	"gorm.io/gorm"
)

// SeasonService owns the season-table lifecycle. Tables are replaced
// wholesale inside one transaction; rows are never patched individually, so a
// user edit can never leave stale leftover periods behind.
type SeasonService struct {
	db *gorm.DB
}

func NewSeasonService(db *gorm.DB) *SeasonService {
	return &SeasonService{db: db}
}

// Validate checks one period's fields and returns its parsed bounds.
func (s *SeasonService) Validate(period *models.SeasonPeriod) (start, end models.DayMonth, err error) {
	if !models.ValidSeasonType(period.SeasonType) {
		return start, end, fmt.Errorf("%w: unknown season type %q", ErrInvalidPeriod, period.SeasonType)
	}
	if period.PricePerNight < 0 {
		return start, end, fmt.Errorf("%w: negative price", ErrInvalidPeriod)
	}
	if period.MinimumNights < 1 {
		return start, end, fmt.Errorf("%w: minimum nights must be positive", ErrInvalidPeriod)
	}
	start, end, boundsErr := period.Bounds()
	if boundsErr != nil {
		return start, end, fmt.Errorf("%w: %v", ErrInvalidPeriod, boundsErr)
	}
	return start, end, nil
}

// Replace validates and swaps a property's full season table. Overlapping
// periods are rejected up front: with a non-overlapping table, the matcher's
// first-match-in-stored-order resolution is deterministic.
func (s *SeasonService) Replace(propertyID uint, periods []models.SeasonPeriod) ([]models.SeasonPeriod, error) {
	type bounds struct{ start, end models.DayMonth }
	parsed := make([]bounds, len(periods))

	for i := range periods {
		start, end, err := s.Validate(&periods[i])
		if err != nil {
			return nil, err
		}
		parsed[i] = bounds{start: start, end: end}
	}

	for i := range parsed {
		for j := i + 1; j < len(parsed); j++ {
			if models.RangesOverlap(parsed[i].start, parsed[i].end, parsed[j].start, parsed[j].end) {
				return nil, fmt.Errorf("%w: %s..%s and %s..%s",
					ErrOverlappingPeriods,
					periods[i].StartDayMonth, periods[i].EndDayMonth,
					periods[j].StartDayMonth, periods[j].EndDayMonth)
			}
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).
			Unscoped().
			Delete(&models.SeasonPeriod{}).Error; err != nil {
			return err
		}

		for i := range periods {
			periods[i].ID = 0
			periods[i].PropertyID = propertyID
			if periods[i].Origin == "" {
				periods[i].Origin = "manual"
			}
			if err := tx.Create(&periods[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return periods, nil
}

// ByProperty returns the stored season table in insertion order.
func (s *SeasonService) ByProperty(propertyID uint) ([]models.SeasonPeriod, error) {
	var periods []models.SeasonPeriod
	err := s.db.
		Where("property_id = ?", propertyID).
		Order("id ASC").
		Find(&periods).Error
	return periods, err
}
