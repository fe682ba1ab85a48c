package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"-"`
	Role        string `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin

	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:HostID;references:ID"`
}
