package models

import (
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // booking_created, booking_cancelled
	RefID   uint   `json:"refID"`
	RefType string `json:"refType"`
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
