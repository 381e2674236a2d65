// Package main provides the entrypoint for the SafeRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/analysis"
	"github.com/saferoute/saferoute/internal/api"
	"github.com/saferoute/saferoute/internal/api/middleware"
	"github.com/saferoute/saferoute/internal/directions"
	"github.com/saferoute/saferoute/internal/directions/googlemaps"
	"github.com/saferoute/saferoute/internal/imagery"
	"github.com/saferoute/saferoute/internal/places"
	"github.com/saferoute/saferoute/internal/places/googleplaces"
	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/risk"
	"github.com/saferoute/saferoute/internal/risk/vision"
	"github.com/saferoute/saferoute/internal/telemetry"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "saferoute-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SafeRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if mapsKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - route and place endpoints will fail")
	}

	weatherKey := os.Getenv("OPENWEATHER_API_KEY")
	if weatherKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - analysis runs without a weather hint")
	}

	visionKey := os.Getenv("GEMINI_API_KEY")
	if visionKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set - analysis endpoints will fail")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Resilient provider clients, registered for the readiness endpoint
	registry := resilience.NewRegistry()

	mapsClient := resilience.NewClient(resilience.ClientConfig{
		Name:     "googlemaps",
		OnResult: registry.Observer("googlemaps"),
	})
	registry.Register("googlemaps", mapsClient)

	placesClient := resilience.NewClient(resilience.ClientConfig{
		Name:     "googleplaces",
		OnResult: registry.Observer("googleplaces"),
	})
	registry.Register("googleplaces", placesClient)

	weatherClient := resilience.NewClient(resilience.ClientConfig{
		Name:     "openweathermap",
		OnResult: registry.Observer("openweathermap"),
	})
	registry.Register("openweathermap", weatherClient)

	// Vision calls carry an image payload and a model round trip.
	visionClient := resilience.NewClient(resilience.ClientConfig{
		Name:     "vision",
		Timeout:  30 * time.Second,
		OnResult: registry.Observer("vision"),
	})
	registry.Register("vision", visionClient)

	// Initialize directions service
	directionsService := directions.NewService(directions.ServiceConfig{
		Provider: googlemaps.NewClient(googlemaps.ClientConfig{
			APIKey:     mapsKey,
			HTTPClient: mapsClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("directions service initialized")

	// Initialize places service
	placesService := places.NewService(places.ServiceConfig{
		Provider: googleplaces.NewClient(googleplaces.ClientConfig{
			APIKey:     mapsKey,
			HTTPClient: placesClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("places service initialized")

	// Initialize weather service
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:     weatherKey,
			HTTPClient: weatherClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("weather service initialized")

	// Initialize analysis service
	analysisService := analysis.NewService(analysis.ServiceConfig{
		Sampler: imagery.NewSampler(imagery.SamplerConfig{
			APIKey: mapsKey,
			Logger: log,
		}),
		Scorer: risk.NewScorer(risk.ScorerConfig{Logger: log}),
		Oracle: vision.NewClient(vision.ClientConfig{
			APIKey:     visionKey,
			HTTPClient: visionClient,
			Logger:     log,
		}),
		Weather: weatherService,
		Logger:  log,
	})
	analysisService.Subscribe(func(a analysis.Analysis) {
		log.Info().
			Str("route_id", a.RouteID).
			Str("state", string(a.State)).
			Msg("analysis state changed")
	})
	log.Info().Msg("analysis service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Directions:  directionsService,
		Places:      placesService,
		Analysis:    analysisService,
		Registry:    registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
