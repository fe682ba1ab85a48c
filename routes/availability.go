package routes

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"nova-stays-server/models"
	"nova-stays-server/services"
	"nova-stays-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// AvailabilityHandler serves the read-side engine queries: occupancy
// calendars, availability checks, quotes and slot search.
type AvailabilityHandler struct {
	DB           *gorm.DB
	OccupancySvc *services.OccupancyService
	Pricing   *services.PricingService
	Slots     *services.SlotSearchService
	Bookings  *services.BookingService
}

func parsePropertyID(ctx iris.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID", ctx)
		return 0, false
	}
	return uint(id), true
}

func parseDateParam(ctx iris.Context, name string) (time.Time, bool) {
	raw := ctx.URLParam(name)
	if raw == "" {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", name+" is required", ctx)
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid "+name+" format, expected YYYY-MM-DD", ctx)
		return time.Time{}, false
	}
	return t, true
}

// Occupancy returns the merged occupied-date set for calendar display.
func (h *AvailabilityHandler) Occupancy(ctx iris.Context) {
	propertyID, ok := parsePropertyID(ctx)
	if !ok {
		return
	}
	start, ok := parseDateParam(ctx, "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(ctx, "end")
	if !ok {
		return
	}

	occupied, err := h.OccupancySvc.OccupiedDates(propertyID, start, end)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	marks := make([]services.OccupancyMark, 0, len(occupied))
	for _, mark := range occupied {
		marks = append(marks, mark)
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].Date.Before(marks[j].Date) })

	ctx.JSON(iris.Map{"propertyID": propertyID, "occupied": marks})
}

// Check answers the exact-span availability question.
func (h *AvailabilityHandler) Check(ctx iris.Context) {
	propertyID, ok := parsePropertyID(ctx)
	if !ok {
		return
	}
	checkIn, ok := parseDateParam(ctx, "checkIn")
	if !ok {
		return
	}
	checkOut, ok := parseDateParam(ctx, "checkOut")
	if !ok {
		return
	}

	available, err := h.Bookings.CheckAvailability(propertyID, checkIn, checkOut)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSpan) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"available": available})
}

// Quote prices a span with its per-night breakdown.
func (h *AvailabilityHandler) Quote(ctx iris.Context) {
	propertyID, ok := parsePropertyID(ctx)
	if !ok {
		return
	}
	checkIn, ok := parseDateParam(ctx, "checkIn")
	if !ok {
		return
	}
	checkOut, ok := parseDateParam(ctx, "checkOut")
	if !ok {
		return
	}

	var property models.Property
	if err := h.DB.First(&property, propertyID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	quote, err := h.Pricing.Quote(propertyID, checkIn, checkOut)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSpan) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(quote)
}

// FindSlots scans the window for free spans of the requested length.
func (h *AvailabilityHandler) FindSlots(ctx iris.Context) {
	propertyID, ok := parsePropertyID(ctx)
	if !ok {
		return
	}
	start, ok := parseDateParam(ctx, "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(ctx, "end")
	if !ok {
		return
	}

	nights := ctx.URLParamIntDefault("nights", 1)
	limit := ctx.URLParamIntDefault("limit", 10)

	slots, err := h.Slots.FindAvailableSlots(propertyID, start, end, nights, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSpan) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "nights and limit must be at least 1", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"propertyID": propertyID, "slots": slots})
}

type BlockRangeInput struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Reason    string    `json:"reason"`
}

// CreateBlocks writes a manual block range. Unlike bookings the range is
// inclusive on both ends: the host is saying "these exact days are blocked".
func (h *AvailabilityHandler) CreateBlocks(ctx iris.Context) {
	propertyID, ok := parsePropertyID(ctx)
	if !ok {
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

	var input BlockRangeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	start := services.DateOnly(input.StartDate)
	end := services.DateOnly(input.EndDate)
	if end.Before(start) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must not be before startDate", ctx)
		return
	}

	var blocks []models.CalendarBlock
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			block := models.CalendarBlock{
				PropertyID:  propertyID,
				BlockedDate: d,
				Reason:      input.Reason,
				Origin:      models.BlockOriginManual,
			}
			if err := tx.Create(&block).Error; err != nil {
				return err
			}
			blocks = append(blocks, block)
		}
		return nil
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(blocks)
}

func (h *AvailabilityHandler) GetBlocks(ctx iris.Context) {
	propertyID, ok := parsePropertyID(ctx)
	if !ok {
		return
	}

	var blocks []models.CalendarBlock
	if err := h.DB.Where("property_id = ?", propertyID).Order("blocked_date ASC").Find(&blocks).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(blocks)
}

func (h *AvailabilityHandler) DeleteBlock(ctx iris.Context) {
	blockID := ctx.Params().Get("blockID")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var block models.CalendarBlock
	if err := h.DB.Preload("Property").First(&block, blockID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Block not found", ctx)
		return
	}
	if block.Property != nil && block.Property.HostID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if err := h.DB.Delete(&block).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
