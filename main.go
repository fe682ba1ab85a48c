package main

import (
	"context"
	"log"
	"os"

	"nova-stays-server/config"
	"nova-stays-server/logging"
	"nova-stays-server/routes"
	"nova-stays-server/scheduler"
	"nova-stays-server/services"
	"nova-stays-server/storage"
	"nova-stays-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	if _, err := logging.Setup("server.log"); err != nil {
		log.Printf("log file unavailable, logging to stdout only: %v", err)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	db, err := storage.Initialize()
	if err != nil {
		log.Fatalf("could not initialize database: %v", err)
	}
	rdb := storage.NewRedis()

	// Services: explicit dependency wiring, no package-level state.
	tokens := utils.NewTokenService(db, rdb)
	occupancy := services.NewOccupancyService(db)
	pricing := services.NewPricingService(db)
	seasons := services.NewSeasonService(db)
	notifications := services.NewNotificationService(db)
	bookings := services.NewBookingService(db, pricing, notifications)
	slots := services.NewSlotSearchService(occupancy, pricing)
	channelSync := services.NewChannelSyncService(db, seasons, cfg.PriceMarkup, cfg.Sync.FetchTimeout)
	calendarImport := services.NewCalendarImportService(db, cfg.Sync.FetchTimeout)
	quoteCache := services.NewQuoteCache(rdb, cfg.QuoteCacheTTL)

	userHandler := &routes.UserHandler{DB: db, Tokens: tokens}
	propertyHandler := &routes.PropertyHandler{DB: db}
	seasonHandler := &routes.SeasonHandler{DB: db, Seasons: seasons}
	availabilityHandler := &routes.AvailabilityHandler{
		DB: db, OccupancySvc: occupancy, Pricing: pricing, Slots: slots, Bookings: bookings,
	}
	bookingHandler := &routes.BookingHandler{DB: db, Bookings: bookings}
	listingsHandler := &routes.ListingsHandler{DB: db, Pricing: pricing, Cache: quoteCache}
	adminSyncHandler := &routes.AdminSyncHandler{DB: db, Channel: channelSync, Calendars: calendarImport}

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", userHandler.Register)
		user.Post("/login", userHandler.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, tokens.RefreshToken)
		user.Get("/{id}/properties", accessTokenVerifierMiddleware, utils.UserIDMiddleware, propertyHandler.GetByUserID)
		user.Get("/{id}/bookings", accessTokenVerifierMiddleware, utils.UserIDMiddleware, bookingHandler.GetUserBookings)
	}

	property := app.Party("/api/property")
	{
		property.Post("/", accessTokenVerifierMiddleware, propertyHandler.Create)
		property.Get("/{id:uint}", propertyHandler.Get)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, propertyHandler.Delete)

		property.Get("/{id:uint}/seasons", seasonHandler.Get)
		property.Put("/{id:uint}/seasons", accessTokenVerifierMiddleware, seasonHandler.Replace)

		property.Get("/{id:uint}/occupancy", availabilityHandler.Occupancy)
		property.Get("/{id:uint}/check", availabilityHandler.Check)
		property.Get("/{id:uint}/quote", availabilityHandler.Quote)
		property.Get("/{id:uint}/slots", availabilityHandler.FindSlots)

		property.Post("/{id:uint}/bookings", accessTokenVerifierMiddleware, bookingHandler.Create)

		property.Post("/{id:uint}/blocks", accessTokenVerifierMiddleware, availabilityHandler.CreateBlocks)
		property.Get("/{id:uint}/blocks", accessTokenVerifierMiddleware, availabilityHandler.GetBlocks)
		property.Delete("/{id:uint}/blocks/{blockID:uint}", accessTokenVerifierMiddleware, availabilityHandler.DeleteBlock)
	}

	bookingsParty := app.Party("/api/bookings", accessTokenVerifierMiddleware)
	{
		bookingsParty.Post("/{id:uint}/cancel", bookingHandler.Cancel)
	}

	app.Get("/api/host/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, bookingHandler.HostBookings)
	app.Get("/api/listings/quotes", listingsHandler.Quotes)

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Post("/sync/channel", adminSyncHandler.SyncChannel)
		admin.Post("/sync/calendars", adminSyncHandler.SyncCalendars)
		admin.Get("/sync/history", adminSyncHandler.History)
	}

	sched := scheduler.New(cfg, channelSync, calendarImport)
	if err := sched.Start(context.Background()); err != nil {
		log.Fatalf("could not start scheduler: %v", err)
	}
	defer sched.Stop()

	app.Listen(":" + cfg.Port)
}
