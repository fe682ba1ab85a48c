package models

import (
	"gorm.io/gorm"
)

// Season types, ordered roughly by demand.
const (
	SeasonLow     = "low"
	SeasonMid     = "mid"
	SeasonPeak    = "peak"
	SeasonPrime   = "prime"
	SeasonHoliday = "holiday"
)

// SeasonPeriod is a recurring, year-agnostic price period for a property.
// Start/end are persisted as fixed-width "DD-MM" strings. The set of periods
// for a property is replaced wholesale on every pricing update; rows are never
// patched individually.
type SeasonPeriod struct {
	gorm.Model
	PropertyID    uint    `json:"propertyID" gorm:"not null;index"`
	SeasonType    string  `json:"seasonType" gorm:"type:varchar(20);not null"`
	StartDayMonth string  `json:"startDayMonth" gorm:"type:varchar(5);not null"`
	EndDayMonth   string  `json:"endDayMonth" gorm:"type:varchar(5);not null"`
	PricePerNight float64 `json:"pricePerNight" gorm:"not null"` // 0 means unpriced, not free
	MinimumNights int     `json:"minimumNights" gorm:"default:1"`
	SourcePrice   float64 `json:"sourcePrice"` // raw channel price before markup, audit only
	Origin        string  `json:"origin" gorm:"type:varchar(10);default:'manual'"` // manual, channel

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

func ValidSeasonType(t string) bool {
	switch t {
	case SeasonLow, SeasonMid, SeasonPeak, SeasonPrime, SeasonHoliday:
		return true
	}
	return false
}

// Bounds parses the stored day-month strings.
func (sp *SeasonPeriod) Bounds() (start, end DayMonth, err error) {
	start, err = ParseDayMonth(sp.StartDayMonth)
	if err != nil {
		return
	}
	end, err = ParseDayMonth(sp.EndDayMonth)
	return
}

// Covers reports whether the period covers the given day-month.
func (sp *SeasonPeriod) Covers(dm DayMonth) bool {
	start, end, err := sp.Bounds()
	if err != nil {
		return false
	}
	return dm.InRange(start, end)
}
