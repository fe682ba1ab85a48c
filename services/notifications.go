package services

import (
	"fmt"
	"log"

	"nova-stays-server/models"

	"gorm.io/gorm"
)

// NotificationService records in-app notification rows for booking lifecycle
// events. Delivery channels (email, push) live outside this server; rows here
// are the durable source the delivery side reads from.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (ns *NotificationService) create(n models.Notification) {
	if err := ns.db.Create(&n).Error; err != nil {
		log.Printf("could not create notification for user %d: %v", n.UserID, err)
	}
}

func (ns *NotificationService) NotifyBookingCreated(property *models.Property, booking *models.Booking) {
	ns.create(models.Notification{
		UserID: property.HostID,
		Title:  "New Booking",
		Message: fmt.Sprintf("%s is booked from %s to %s",
			property.Title,
			booking.CheckIn.Format("Jan 2, 2006"),
			booking.CheckOut.Format("Jan 2, 2006")),
		Type:    "booking_created",
		RefID:   booking.ID,
		RefType: "booking",
	})
}

func (ns *NotificationService) NotifyBookingCancelled(property *models.Property, booking *models.Booking) {
	ns.create(models.Notification{
		UserID: property.HostID,
		Title:  "Booking Cancelled",
		Message: fmt.Sprintf("The booking for %s from %s to %s was cancelled",
			property.Title,
			booking.CheckIn.Format("Jan 2, 2006"),
			booking.CheckOut.Format("Jan 2, 2006")),
		Type:    "booking_cancelled",
		RefID:   booking.ID,
		RefType: "booking",
	})
}
