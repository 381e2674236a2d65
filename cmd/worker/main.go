// Package main provides the entrypoint for the SafeRoute background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/analysis"
	"github.com/saferoute/saferoute/internal/directions"
	"github.com/saferoute/saferoute/internal/directions/googlemaps"
	"github.com/saferoute/saferoute/internal/imagery"
	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/risk"
	"github.com/saferoute/saferoute/internal/risk/vision"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/internal/weather/openweathermap"
	"github.com/saferoute/saferoute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "saferoute-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SafeRoute worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	weatherKey := os.Getenv("OPENWEATHER_API_KEY")
	visionKey := os.Getenv("GEMINI_API_KEY")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provider clients
	mapsClient := resilience.NewClient(resilience.ClientConfig{Name: "googlemaps"})
	weatherClient := resilience.NewClient(resilience.ClientConfig{Name: "openweathermap"})
	visionClient := resilience.NewClient(resilience.ClientConfig{
		Name:    "vision",
		Timeout: 30 * time.Second,
	})

	directionsService := directions.NewService(directions.ServiceConfig{
		Provider: googlemaps.NewClient(googlemaps.ClientConfig{
			APIKey:     mapsKey,
			HTTPClient: mapsClient,
			Logger:     log,
		}),
		Logger: log,
	})

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:     weatherKey,
			HTTPClient: weatherClient,
			Logger:     log,
		}),
		Logger: log,
	})

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

	warmJob := worker.NewWarmJob(worker.WarmJobConfig{
		Logger:            log,
		DirectionsService: directionsService,
		WeatherService:    weatherService,
	})

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscription != "" {
		// Message-driven mode: jobs arrive over Pub/Sub
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			WarmJob:          warmJob,
			AnalysisService:  analysisService,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler error")
			}
		}()
	} else {
		// Standalone mode: warm caches on a fixed interval
		warmInterval := 15 * time.Minute
		if v := os.Getenv("WARM_INTERVAL"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				warmInterval = d
			} else {
				log.Warn().Str("value", v).Msg("invalid WARM_INTERVAL, using default")
			}
		}

		log.Info().Dur("interval", warmInterval).Msg("pubsub not configured, running periodic cache warm")

		go func() {
			ticker := time.NewTicker(warmInterval)
			defer ticker.Stop()

			warmJob.Run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					warmJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
