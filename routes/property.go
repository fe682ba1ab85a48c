package routes

import (
	"encoding/json"

	"nova-stays-server/models"
	"nova-stays-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type PropertyHandler struct {
	DB *gorm.DB
}

type CreatePropertyInput struct {
	Title             string   `json:"title" validate:"required,max=256"`
	Description       string   `json:"description"`
	AddressLine1      string   `json:"addressLine1"`
	City              string   `json:"city" validate:"required"`
	Country           string   `json:"country" validate:"required"`
	Lat               float32  `json:"lat"`
	Lng               float32  `json:"lng"`
	Capacity          int      `json:"capacity" validate:"required,gte=1,lte=32"`
	Bedrooms          int      `json:"bedrooms" validate:"gte=0"`
	Beds              int      `json:"beds" validate:"gte=0"`
	Bathrooms         float32  `json:"bathrooms" validate:"gte=0"`
	Currency          string   `json:"currency"`
	Amenities         []string `json:"amenities"`
	Images            []string `json:"images"`
	ChannelFeedURL    string   `json:"channelFeedURL" validate:"omitempty,url"`
	CalendarImportURL string   `json:"calendarImportURL" validate:"omitempty,url"`
}

func (h *PropertyHandler) Create(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Ensure arrays are never null
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	property := models.Property{
		HostID:            claims.ID,
		Title:             input.Title,
		Description:       input.Description,
		AddressLine1:      input.AddressLine1,
		City:              input.City,
		Country:           input.Country,
		Lat:               input.Lat,
		Lng:               input.Lng,
		Capacity:          input.Capacity,
		Bedrooms:          input.Bedrooms,
		Beds:              input.Beds,
		Bathrooms:         input.Bathrooms,
		Currency:          input.Currency,
		Amenities:         amenitiesJSON,
		Images:            imagesJSON,
		ChannelFeedURL:    input.ChannelFeedURL,
		CalendarImportURL: input.CalendarImportURL,
	}

	if err := h.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(property)
}

func (h *PropertyHandler) Get(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if err := h.DB.Preload("SeasonPeriods").First(&property, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	ctx.JSON(property)
}

func (h *PropertyHandler) GetByUserID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var properties []models.Property
	if err := h.DB.Where("host_id = ?", id).Order("created_at DESC").Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

func (h *PropertyHandler) Delete(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var property models.Property
	if err := h.DB.First(&property, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	if property.HostID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if err := h.DB.Delete(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
