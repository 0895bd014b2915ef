package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groveline/orchard-api/docs"
	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/config"
	"github.com/groveline/orchard-api/internal/database"
	"github.com/groveline/orchard-api/internal/http/handler"
	"github.com/groveline/orchard-api/internal/http/middleware"
	"github.com/groveline/orchard-api/internal/http/router"
	"github.com/groveline/orchard-api/internal/jobs"
	"github.com/groveline/orchard-api/internal/logger"
	"github.com/groveline/orchard-api/internal/packfeed"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/service"
	"go.uber.org/zap"
)

// @title Groveline Orchard API
// @version 1.0
// @description Multi-tenant API for orchard operations, packinghouse settlement reconciliation, and pipeline analytics
// @termsOfService http://swagger.io/terms/

// @contact.name Groveline Platform Team
// @contact.email platform@groveline.ag

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "orchard-api-staging.groveline.ag"
	case "production":
		docs.SwaggerInfo.Host = "api.groveline.ag"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize pack feed connection (optional - read-only packinghouse benchmarks)
	// The app continues without it if not configured
	feedClient, err := packfeed.NewClient(&cfg.PackFeed, log)
	if err != nil {
		log.Warn("Pack feed connection failed, continuing without it",
			zap.Error(err),
		)
		feedClient = nil
	}

	// Initialize repositories
	farmRepo := repository.NewFarmRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	harvestRepo := repository.NewHarvestRepository(db)
	laborRepo := repository.NewLaborRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	poolRepo := repository.NewPoolRepository(db)
	houseRepo := repository.NewPackinghouseRepository(db)
	packoutRepo := repository.NewPackoutRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, log)
	farmService := service.NewFarmService(farmRepo, fieldRepo, log)
	harvestService := service.NewHarvestService(harvestRepo, laborRepo, deliveryRepo, fieldRepo, notificationService, log)
	deliveryService := service.NewDeliveryService(deliveryRepo, poolRepo, fieldRepo, harvestRepo, log)
	poolService := service.NewPoolService(poolRepo, houseRepo, deliveryRepo, packoutRepo, settlementRepo, log)
	packoutService := service.NewPackoutService(packoutRepo, poolRepo, notificationService, log)
	settlementService := service.NewSettlementService(settlementRepo, poolRepo, notificationService, log)
	analyticsService := service.NewAnalyticsService(harvestRepo, deliveryRepo, packoutRepo, settlementRepo, fieldRepo, log)
	packFeedService := service.NewPackFeedService(feedClient, houseRepo, poolRepo, packoutRepo, settlementRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	growerFilterMiddleware := middleware.NewGrowerFilterMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, log)
	farmHandler := handler.NewFarmHandler(farmService, log)
	harvestHandler := handler.NewHarvestHandler(harvestService, log)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService, log)
	poolHandler := handler.NewPoolHandler(poolService, packFeedService, log)
	packoutHandler := handler.NewPackoutHandler(packoutService, log)
	settlementHandler := handler.NewSettlementHandler(settlementService, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		growerFilterMiddleware,
		rateLimiter,
		packFeedService,
		authHandler,
		farmHandler,
		harvestHandler,
		deliveryHandler,
		poolHandler,
		packoutHandler,
		settlementHandler,
		analyticsHandler,
		notificationHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterReconcileScanJob(scheduler, harvestService, &cfg.Jobs, log); err != nil {
			log.Error("Failed to register reconciliation scan job", zap.Error(err))
		}

		// runOnStartup=true syncs benchmarks for open pools immediately
		if err := jobs.RegisterPackFeedSyncJob(scheduler, packFeedService, &cfg.Jobs, log, true); err != nil {
			log.Error("Failed to register pack feed sync job", zap.Error(err))
		}

		scheduler.Start()
		log.Info("Scheduler started",
			zap.Strings("jobs", scheduler.GetJobNames()),
			zap.String("reconcile_scan_cron", cfg.Jobs.ReconcileScanSchedule),
			zap.String("packfeed_sync_cron", cfg.Jobs.PackFeedSyncSchedule),
		)
	} else {
		log.Info("Background jobs disabled",
			zap.Bool("jobs_enabled", cfg.Jobs.Enabled),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			scheduler.Stop()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close pack feed connection if initialized
		if feedClient != nil {
			if err := feedClient.Close(); err != nil {
				log.Warn("Error closing pack feed connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
