package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingActive    = "active"
	BookingCancelled = "cancelled"
)

// Booking is an internally recorded reservation. CheckOut is the departure
// day and is not itself occupied: a second booking may check in that same day.
type Booking struct {
	gorm.Model
	PropertyID       uint      `json:"propertyID" gorm:"not null;index"`
	GuestID          uint      `json:"guestID" gorm:"index"`
	CheckIn          time.Time `json:"checkIn" gorm:"not null"`
	CheckOut         time.Time `json:"checkOut" gorm:"not null"`
	NumGuests        int       `json:"numGuests"`
	GuestName        string    `json:"guestName"`
	GuestEmail       string    `json:"guestEmail"`
	GuestPhone       string    `json:"guestPhone"`
	Note             string    `json:"note"`
	TotalPrice       float64   `json:"totalPrice"`
	Status           string    `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ConfirmationCode string    `json:"confirmationCode" gorm:"type:varchar(36);uniqueIndex"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
}

// Nights returns the number of charged nights, checkout day excluded.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
