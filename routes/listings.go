package routes

import (
	"errors"
	"sort"

	"nova-stays-server/models"
	"nova-stays-server/services"
	"nova-stays-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// ListingsHandler serves the bulk, price-sorted listing of active properties
// for a requested span.
type ListingsHandler struct {
	DB      *gorm.DB
	Pricing *services.PricingService
	Cache   *services.QuoteCache
}

type listingQuote struct {
	Property models.Property `json:"property"`
	Quote    *services.Quote `json:"quote"`
}

// Quotes prices every active property for the span and returns them sorted
// by total price ascending. Properties whose quote has underspecified nights
// are excluded entirely: a partial or zero total must never be ranked.
func (h *ListingsHandler) Quotes(ctx iris.Context) {
	checkIn, ok := parseDateParam(ctx, "checkIn")
	if !ok {
		return
	}
	checkOut, ok := parseDateParam(ctx, "checkOut")
	if !ok {
		return
	}

	var properties []models.Property
	if err := h.DB.Where("is_active = ?", true).Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	reqCtx := ctx.Request().Context()
	results := make([]listingQuote, 0, len(properties))

	for i := range properties {
		quote, hit := h.Cache.Get(reqCtx, properties[i].ID, checkIn, checkOut)
		if !hit {
			var err error
			quote, err = h.Pricing.Quote(properties[i].ID, checkIn, checkOut)
			if err != nil {
				if errors.Is(err, services.ErrInvalidSpan) {
					utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
					return
				}
				utils.CreateInternalServerError(ctx)
				return
			}
			h.Cache.Set(reqCtx, quote)
		}

		if quote.HasUnderspecifiedNights {
			continue
		}
		results = append(results, listingQuote{Property: properties[i], Quote: quote})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Quote.TotalPrice < results[j].Quote.TotalPrice
	})

	ctx.JSON(iris.Map{"count": len(results), "listings": results})
}
