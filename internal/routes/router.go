package routes

import (
	"net/http"
	"time"

	"textile-qc/inspections/internal/api"
	"textile-qc/inspections/internal/config"
	"textile-qc/inspections/internal/logging"
	"textile-qc/inspections/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

// RegisterRoutes builds the HTTP handler. healthDB is pinged by /healthCheck.
func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, healthDB *sqlx.DB, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Response-Time"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, deps.Metrics)
	r.Use(limiter.Middleware)

	logging.Info("Router initialized",
		"cors_origins", cfg.CORSAllowedOrigins,
		"rate_limit_rps", cfg.RateLimitRPS,
		"max_body_bytes", cfg.MaxBodyBytes,
	)

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(healthDB, upSince))

	RegisterAPIRoutes(r, api.NewHandlers(deps), deps, cfg.MaxBodyBytes)

	return r
}
