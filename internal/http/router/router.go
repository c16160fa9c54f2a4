package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/config"
	"github.com/propelhq/proposal-api/internal/database"
	"github.com/propelhq/proposal-api/internal/http/handler"
	"github.com/propelhq/proposal-api/internal/http/middleware"

	_ "github.com/propelhq/proposal-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	rateLimiter     *middleware.RateLimiter
	blockHandler    *handler.BlockHandler
	proposalHandler *handler.ProposalHandler
	renderHandler   *handler.RenderHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	blockHandler *handler.BlockHandler,
	proposalHandler *handler.ProposalHandler,
	renderHandler *handler.RenderHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		rateLimiter:     rateLimiter,
		blockHandler:    blockHandler,
		proposalHandler: proposalHandler,
		renderHandler:   renderHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
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

	// Combined readiness check
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

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Content block library
		r.Route("/blocks", func(r chi.Router) {
			r.Get("/", rt.blockHandler.List)
			r.Post("/", rt.blockHandler.Create)
			r.Get("/{id}", rt.blockHandler.GetByID)
			r.Put("/{id}", rt.blockHandler.Update)
			r.Delete("/{id}", rt.blockHandler.Delete)
		})

		// Proposals
		r.Route("/proposals", func(r chi.Router) {
			r.Get("/", rt.proposalHandler.List)
			r.Post("/", rt.proposalHandler.Create)
			r.Get("/{id}", rt.proposalHandler.GetByID)
			r.Put("/{id}", rt.proposalHandler.Update)
			r.Delete("/{id}", rt.proposalHandler.Delete)

			// Draft composition
			r.Post("/{id}/sections", rt.proposalHandler.AddSection)
			r.Put("/{id}/sections/{sectionId}", rt.proposalHandler.UpdateSection)
			r.Delete("/{id}/sections/{sectionId}", rt.proposalHandler.RemoveSection)
			r.Post("/{id}/sections/{sectionId}/blocks", rt.proposalHandler.AddBlock)
			r.Put("/{id}/sections/{sectionId}/blocks/{blockId}", rt.proposalHandler.UpdateBlock)
			r.Delete("/{id}/sections/{sectionId}/blocks/{blockId}", rt.proposalHandler.RemoveBlock)
			r.Put("/{id}/payment-terms", rt.proposalHandler.ReplacePaymentTerms)
			r.Post("/{id}/introduction", rt.proposalHandler.GenerateIntroduction)

			// Lifecycle
			r.Post("/{id}/send", rt.proposalHandler.Send)
			r.Post("/{id}/approve", rt.proposalHandler.Approve)

			// Rendering
			r.Get("/{id}/preview", rt.renderHandler.Preview)
			r.Post("/{id}/preview", rt.renderHandler.PreviewMeasured)
			r.Get("/{id}/pdf", rt.renderHandler.PDF)
		})
	})

	return r
}
