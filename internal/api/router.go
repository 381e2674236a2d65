// Package api provides the HTTP API for SafeRoute.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/analysis"
	"github.com/saferoute/saferoute/internal/api/handler"
	"github.com/saferoute/saferoute/internal/api/middleware"
	"github.com/saferoute/saferoute/internal/directions"
	"github.com/saferoute/saferoute/internal/places"
	"github.com/saferoute/saferoute/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Directions *directions.Service
	Places     *places.Service
	Analysis   *analysis.Service
	Registry   *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "saferoute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireJSON)
	r.Use(middleware.ContentTypeJSON)

	var cacheStats handler.CacheStatsSource
	if cfg.Places != nil {
		cacheStats = cfg.Places.CacheStats
	}

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cacheStats)
	routeHandler := handler.NewRouteHandler(cfg.Directions, cfg.Places)
	analysisHandler := handler.NewAnalysisHandler(cfg.Analysis, cfg.Directions, cfg.Logger)
	placeHandler := handler.NewPlaceHandler(cfg.Places)

	analysisRateLimit := middleware.RateLimitByIP(middleware.AnalysisRateLimit)   // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// Ops endpoints (public, unversioned)
	r.Get("/healthz", opsHandler.HealthCheck)
	r.Get("/readyz", opsHandler.ReadinessCheck)
	r.Get("/version", opsHandler.Version)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Route computation - expensive, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes:compute", routeHandler.ComputeRoutes)

		// Risk analysis - fans out to the vision oracle
		r.With(analysisRateLimit).Post("/routes/{routeId}:analyze", analysisHandler.StartAnalysis)
		r.With(standardRateLimit).Get("/routes/{routeId}/analysis", analysisHandler.GetAnalysis)

		// Place search
		r.With(standardRateLimit).Get("/places:autocomplete", placeHandler.Autocomplete)
		r.With(standardRateLimit).Get("/places/{placeId}", placeHandler.GetDetails)
	})

	return r
}
