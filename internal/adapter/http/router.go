package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bookstore/internal/adapter/http/handler"
	"github.com/iho/bookstore/internal/adapter/http/middleware"
	"github.com/iho/bookstore/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BookHandler      *handler.BookHandler
	PriceHandler     *handler.PriceHandler
	RevenueHandler   *handler.RevenueHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Books and their price ledgers
		r.Route("/books", func(r chi.Router) {
			r.Post("/", cfg.BookHandler.Create)
			r.Get("/", cfg.BookHandler.List)
			r.Get("/{id}", cfg.BookHandler.Get)

			r.Post("/{id}/price", cfg.PriceHandler.SetInitial)
			r.Put("/{id}/price", cfg.PriceHandler.Update)
			r.Get("/{id}/prices", cfg.PriceHandler.History)
			r.Get("/{id}/prices/current", cfg.PriceHandler.Current)
			r.Get("/{id}/prices/at", cfg.PriceHandler.At)

			r.Post("/{id}/revenue", cfg.RevenueHandler.Compute)
		})
	})

	return r
}
