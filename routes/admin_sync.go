package routes

import (
	"nova-stays-server/models"
	"nova-stays-server/services"
	"nova-stays-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// AdminSyncHandler triggers the bulk sync jobs on demand and exposes the
// sync-run history. The same services back the cron scheduler.
type AdminSyncHandler struct {
	DB        *gorm.DB
	Channel   *services.ChannelSyncService
	Calendars *services.CalendarImportService
}

func (h *AdminSyncHandler) SyncChannel(ctx iris.Context) {
	report, err := h.Channel.SyncAll(ctx.Request().Context())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(report)
}

func (h *AdminSyncHandler) SyncCalendars(ctx iris.Context) {
	report, err := h.Calendars.SyncAll(ctx.Request().Context())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(report)
}

func (h *AdminSyncHandler) History(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var total int64
	if err := h.DB.Model(&models.SyncRun{}).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var runs []models.SyncRun
	if err := h.DB.Order("started_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&runs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, runs, page, perPage, total)
}
