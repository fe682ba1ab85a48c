package routes

import (
	"errors"
	"strconv"
	"time"

	"nova-stays-server/models"
	"nova-stays-server/services"
	"nova-stays-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type BookingHandler struct {
	DB       *gorm.DB
	Bookings *services.BookingService
}

type CreateBookingInput struct {
	CheckIn    time.Time `json:"checkIn" validate:"required"`
	CheckOut   time.Time `json:"checkOut" validate:"required"`
	NumGuests  int       `json:"numGuests" validate:"required,gte=1,lte=32"`
	GuestName  string    `json:"guestName"`
	GuestEmail string    `json:"guestEmail" validate:"omitempty,email"`
	GuestPhone string    `json:"guestPhone"`
	Note       string    `json:"note"`
}

func (h *BookingHandler) Create(ctx iris.Context) {
	propertyID, ok := parsePropertyID(ctx)
	if !ok {
		return
	}
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := h.Bookings.Create(services.CreateBookingInput{
		PropertyID: propertyID,
		GuestID:    claims.ID,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		NumGuests:  input.NumGuests,
		GuestName:  input.GuestName,
		GuestEmail: input.GuestEmail,
		GuestPhone: input.GuestPhone,
		Note:       input.Note,
	})
	if err != nil {
		switch {
		case services.IsConflict(err):
			utils.CreateError(iris.StatusConflict, "Conflict", "The selected dates are no longer available.", ctx)
		case errors.Is(err, services.ErrInvalidSpan):
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be before checkOut", ctx)
		case errors.Is(err, services.ErrUnpricedNights):
			utils.CreateError(iris.StatusUnprocessableEntity, "Pricing Error",
				"The selected dates contain nights without a configured price.", ctx)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

func (h *BookingHandler) Cancel(ctx iris.Context) {
	bookingID, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid booking ID", ctx)
		return
	}
	claims := jwt.Get(ctx).(*utils.AccessToken)

	guestID := claims.ID
	if claims.Role == "admin" {
		guestID = 0 // admins may cancel any booking
	}

	booking, err := h.Bookings.Cancel(uint(bookingID), guestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(booking)
}

// HostBookings returns bookings across every property owned by the caller.
func (h *BookingHandler) HostBookings(ctx iris.Context) {
	hostID := ctx.Values().Get("userID")

	var bookings []models.Booking
	res := h.DB.
		Joins("JOIN properties p ON p.id = bookings.property_id").
		Where("p.host_id = ?", hostID).
		Preload("Property").
		Order("bookings.created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

func (h *BookingHandler) GetUserBookings(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var bookings []models.Booking
	res := h.DB.Preload("Property").Where("guest_id = ?", id).Order("created_at DESC").Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}
