package routes

import (
	"errors"
	"strconv"

	"nova-stays-server/models"
	"nova-stays-server/services"
	"nova-stays-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type SeasonHandler struct {
	DB      *gorm.DB
	Seasons *services.SeasonService
}

type SeasonPeriodInput struct {
	SeasonType    string  `json:"seasonType" validate:"required,oneof=low mid peak prime holiday"`
	StartDayMonth string  `json:"startDayMonth" validate:"required,len=5"`
	EndDayMonth   string  `json:"endDayMonth" validate:"required,len=5"`
	PricePerNight float64 `json:"pricePerNight" validate:"gte=0"`
	MinimumNights int     `json:"minimumNights" validate:"required,gte=1"`
}

type ReplaceSeasonsInput struct {
	Periods []SeasonPeriodInput `json:"periods" validate:"required,dive"`
}

func (h *SeasonHandler) Get(ctx iris.Context) {
	propertyID, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID", ctx)
		return
	}

	periods, err := h.Seasons.ByProperty(uint(propertyID))
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(periods)
}

// Replace swaps a property's whole season table. Partial edits are not a
// thing: the request carries the complete new set.
func (h *SeasonHandler) Replace(ctx iris.Context) {
	propertyID, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	var property models.Property
	if err := h.DB.First(&property, propertyID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}
	if property.HostID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input ReplaceSeasonsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	periods := make([]models.SeasonPeriod, 0, len(input.Periods))
	for _, p := range input.Periods {
		periods = append(periods, models.SeasonPeriod{
			SeasonType:    p.SeasonType,
			StartDayMonth: p.StartDayMonth,
			EndDayMonth:   p.EndDayMonth,
			PricePerNight: p.PricePerNight,
			MinimumNights: p.MinimumNights,
		})
	}

	saved, err := h.Seasons.Replace(uint(propertyID), periods)
	if err != nil {
		if errors.Is(err, services.ErrOverlappingPeriods) || errors.Is(err, services.ErrInvalidPeriod) {
			utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", err.Error(), ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(saved)
}
