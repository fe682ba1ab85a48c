package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BlockOriginManual = "manual"
	BlockOriginICS    = "ics"
)

// CalendarBlock marks a single day as externally unavailable (ICS import or a
// manual host block). Unlike bookings there is no turnover: every stored day,
// including the last day of an imported range, is occupied.
type CalendarBlock struct {
	gorm.Model
	PropertyID  uint      `json:"propertyID" gorm:"not null;index"`
	BlockedDate time.Time `json:"blockedDate" gorm:"not null;index"`
	Reason      string    `json:"reason"`
	Origin      string    `json:"origin" gorm:"type:varchar(10);default:'manual';index"` // manual, ics

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}
