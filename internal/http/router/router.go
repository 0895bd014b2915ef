package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/config"
	"github.com/groveline/orchard-api/internal/database"
	"github.com/groveline/orchard-api/internal/http/handler"
	"github.com/groveline/orchard-api/internal/http/middleware"
	"github.com/groveline/orchard-api/internal/service"

	_ "github.com/groveline/orchard-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                    *config.Config
	logger                 *zap.Logger
	db                     *gorm.DB
	authMiddleware         *auth.Middleware
	growerFilterMiddleware *middleware.GrowerFilterMiddleware
	rateLimiter            *middleware.RateLimiter
	packFeedService        *service.PackFeedService
	authHandler            *handler.AuthHandler
	farmHandler            *handler.FarmHandler
	harvestHandler         *handler.HarvestHandler
	deliveryHandler        *handler.DeliveryHandler
	poolHandler            *handler.PoolHandler
	packoutHandler         *handler.PackoutHandler
	settlementHandler      *handler.SettlementHandler
	analyticsHandler       *handler.AnalyticsHandler
	notificationHandler    *handler.NotificationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	growerFilterMiddleware *middleware.GrowerFilterMiddleware,
	rateLimiter *middleware.RateLimiter,
	packFeedService *service.PackFeedService,
	authHandler *handler.AuthHandler,
	farmHandler *handler.FarmHandler,
	harvestHandler *handler.HarvestHandler,
	deliveryHandler *handler.DeliveryHandler,
	poolHandler *handler.PoolHandler,
	packoutHandler *handler.PackoutHandler,
	settlementHandler *handler.SettlementHandler,
	analyticsHandler *handler.AnalyticsHandler,
	notificationHandler *handler.NotificationHandler,
) *Router {
	return &Router{
		cfg:                    cfg,
		logger:                 logger,
		db:                     db,
		authMiddleware:         authMiddleware,
		growerFilterMiddleware: growerFilterMiddleware,
		rateLimiter:            rateLimiter,
		packFeedService:        packFeedService,
		authHandler:            authHandler,
		farmHandler:            farmHandler,
		harvestHandler:         harvestHandler,
		deliveryHandler:        deliveryHandler,
		poolHandler:            poolHandler,
		packoutHandler:         packoutHandler,
		settlementHandler:      settlementHandler,
		analyticsHandler:       analyticsHandler,
		notificationHandler:    notificationHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database readiness probe with pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check across dependencies
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// The pack feed is optional; report it without failing readiness
		if rt.packFeedService.IsEnabled() {
			if status, err := rt.packFeedService.HealthCheck(r.Context()); err != nil {
				checks["packfeed"] = map[string]interface{}{
					"status": "unhealthy",
					"error":  err.Error(),
				}
			} else {
				checks["packfeed"] = status
			}
		} else {
			checks["packfeed"] = map[string]interface{}{
				"status": "disabled",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.growerFilterMiddleware.Filter)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Farms
			r.Route("/farms", func(r chi.Router) {
				r.Get("/", rt.farmHandler.List)
				r.Post("/", rt.farmHandler.Create)
				r.Get("/{id}", rt.farmHandler.GetByID)
				r.Put("/{id}", rt.farmHandler.Update)
				r.Delete("/{id}", rt.farmHandler.Delete)
			})

			// Fields
			r.Route("/fields", func(r chi.Router) {
				r.Get("/", rt.farmHandler.ListFields)
				r.Post("/", rt.farmHandler.CreateField)
				r.Get("/{id}", rt.farmHandler.GetField)
			})

			// Harvests
			r.Route("/harvests", func(r chi.Router) {
				r.Get("/", rt.harvestHandler.List)
				r.Post("/", rt.harvestHandler.Create)
				r.Get("/{id}", rt.harvestHandler.GetByID)
				r.Put("/{id}", rt.harvestHandler.Update)
				r.Delete("/{id}", rt.harvestHandler.Delete)
				r.Get("/{id}/reconciliation", rt.harvestHandler.Reconciliation)
				r.Get("/{id}/labor-entries", rt.harvestHandler.ListLaborEntries)
			})

			// Labor entries
			r.Post("/labor-entries", rt.harvestHandler.AddLaborEntry)

			// Deliveries
			r.Route("/deliveries", func(r chi.Router) {
				r.Get("/", rt.deliveryHandler.List)
				r.Post("/", rt.deliveryHandler.Create)
				r.Get("/{id}", rt.deliveryHandler.GetByID)
				r.Delete("/{id}", rt.deliveryHandler.Delete)
				r.Put("/{id}/link/{harvestId}", rt.deliveryHandler.LinkHarvest)
			})

			// Packinghouses
			r.Route("/packinghouses", func(r chi.Router) {
				r.Get("/", rt.poolHandler.ListPackinghouses)
				r.Post("/", rt.poolHandler.CreatePackinghouse)
			})

			// Pools
			r.Route("/pools", func(r chi.Router) {
				r.Get("/", rt.poolHandler.List)
				r.Post("/", rt.poolHandler.Create)
				r.Get("/{id}", rt.poolHandler.GetByID)
				r.Put("/{id}/status", rt.poolHandler.UpdateStatus)
				r.Get("/{id}/summary", rt.poolHandler.Summary)
				r.Get("/{id}/benchmark", rt.poolHandler.Benchmark)
			})

			// Packout reports
			r.Route("/packout-reports", func(r chi.Router) {
				r.Get("/", rt.packoutHandler.List)
				r.Post("/", rt.packoutHandler.Create)
				r.Get("/{id}", rt.packoutHandler.GetByID)
				r.Delete("/{id}", rt.packoutHandler.Delete)
			})

			// Settlements
			r.Route("/settlements", func(r chi.Router) {
				r.Get("/", rt.settlementHandler.List)
				r.Post("/", rt.settlementHandler.Create)
				r.Get("/{id}", rt.settlementHandler.GetByID)
				r.Delete("/{id}", rt.settlementHandler.Delete)
				r.Get("/{id}/variance", rt.settlementHandler.Variance)
			})

			// Analytics
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/funnel", rt.analyticsHandler.Funnel)
				r.Get("/size-distribution", rt.analyticsHandler.SizeDistribution)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllRead)
				r.Put("/{id}/read", rt.notificationHandler.MarkRead)
			})
		})
	})

	return r
}
