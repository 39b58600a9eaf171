package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"parkwise/config"
	"parkwise/cron"
	"parkwise/database"
	"parkwise/database/repository/memory"
	recordsRepo "parkwise/database/repository/records"
	slotRepo "parkwise/database/repository/slot"
	userRepoPkg "parkwise/database/repository/user"
	"parkwise/handlers"
	"parkwise/middleware"
	"parkwise/routes"
	"parkwise/services/admin"
	"parkwise/services/parking"
	"parkwise/services/qr"
	"parkwise/services/tasks"
	"parkwise/services/user"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// repositories.
	var (
		slots   slotRepo.SlotRepository
		archive recordsRepo.CompletedParkingRepository
		users   userRepoPkg.UserRepository
	)
	switch config.AppConfig.StorageDriver {
	case "memory":
		logger.Warn("Using in-memory storage; data is lost on restart")
		archiveStore := memory.NewArchiveStore()
		slots = memory.NewSlotStore(archiveStore)
		archive = archiveStore
		users = memory.NewUserStore()
	default:
		if err := database.InitDB(); err != nil {
			logger.Fatal("main: failed to connect to database", zap.Error(err))
		}
		slots = slotRepo.NewMongoSlotRepo()
		archive = recordsRepo.NewMongoRecordRepo()
		users = userRepoPkg.NewMongoUserRepo()
	}

	utils.InitCache()
	qrCache := qr.NewRedisImageCache(utils.GetCacheClient(), time.Duration(config.AppConfig.QRCacheTTLMinute)*time.Minute)
	codec := qr.NewCodec(qrCache)

	var gateway parking.PaymentGateway = parking.SimulatedGateway{}
	if config.AppConfig.StripeKey != "" {
		stripe.Key = config.AppConfig.StripeKey
		gateway = parking.StripeGateway{}
		logger.Info("Stripe payments enabled")
	}

	var (
		reminders   parking.ReminderScheduler
		asynqClient *asynq.Client
		worker      *asynq.Server
	)
	if config.RedisEnabled() {
		asynqClient = asynq.NewClient(cron.RedisOpt())
		reminders = tasks.NewReminderQueue(asynqClient)
		worker = cron.InitReminderWorker(slots)
	}

	// services.
	userService := &user.DefaultUserService{
		Repo:              users,
		MinPasswordLength: config.AppConfig.MinPasswordLength,
		TokenTTL:          config.TokenTTL(),
	}
	parkingService := &parking.DefaultParkingService{
		Slots:        slots,
		Archive:      archive,
		QR:           codec,
		Payments:     gateway,
		Reminders:    reminders,
		PricePerHour: config.AppConfig.PricePerHour,
		Currency:     config.AppConfig.PaymentCurrency,
	}
	adminService := &admin.DefaultAdminService{
		Slots:   slots,
		Archive: archive,
		Users:   users,
		QR:      codec,
	}

	if _, err := parkingService.EnsureSlots(ctx, config.Sections(), config.AppConfig.SlotsPerSection); err != nil {
		logger.Fatal("main: failed to seed parking slots", zap.Error(err))
	}
	if _, err := userService.EnsureAdmin(ctx, config.AppConfig.AdminName, config.AppConfig.AdminEmail, config.AppConfig.AdminPassword); err != nil {
		logger.Fatal("main: failed to seed admin account", zap.Error(err))
	}

	utils.StartHealthMonitor(ctx, utils.GetCacheClient(), database.MongoClient, 30*time.Second)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(userService, parkingService, adminService))

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		_ = asynqClient.Close()
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: failed to disconnect from database", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
