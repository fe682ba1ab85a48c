package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	HostID       uint           `json:"hostID" gorm:"index"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	AddressLine1 string         `json:"addressLine1"`
	City         string         `json:"city"`
	Country      string         `json:"country"`
	Lat          float32        `json:"lat"`
	Lng          float32        `json:"lng"`
	Capacity     int            `json:"capacity"`
	Bedrooms     int            `json:"bedrooms"`
	Beds         int            `json:"beds"`
	Bathrooms    float32        `json:"bathrooms"`
	Currency     string         `json:"currency"`
	Amenities    datatypes.JSON `json:"amenities"`
	Images       datatypes.JSON `json:"images"`
	IsActive     *bool          `json:"isActive" gorm:"default:true"`
	CheckInTime  string         `json:"checkInTime" gorm:"type:varchar(10);default:'15:00'"`
	CheckOutTime string         `json:"checkOutTime" gorm:"type:varchar(10);default:'11:00'"`

	// Sync endpoints. Empty means the property is not synced by that source.
	ChannelFeedURL    string `json:"channelFeedURL" gorm:"column:channel_feed_url"`
	CalendarImportURL string `json:"calendarImportURL" gorm:"column:calendar_import_url"`

	Host           *User           `json:"host,omitempty" gorm:"foreignKey:HostID"`
	SeasonPeriods  []SeasonPeriod  `json:"seasonPeriods,omitempty" gorm:"foreignKey:PropertyID"`
	Bookings       []Booking       `json:"bookings,omitempty" gorm:"foreignKey:PropertyID"`
	CalendarBlocks []CalendarBlock `json:"calendarBlocks,omitempty" gorm:"foreignKey:PropertyID"`
}
