package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/analysis"
	"github.com/saferoute/saferoute/pkg/polyline"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	warmJob          *WarmJob
	analysisService  *analysis.Service
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	WarmJob          *WarmJob
	AnalysisService  *analysis.Service
	Logger           zerolog.Logger
}

// JobMessage is a worker job envelope.
type JobMessage struct {
	JobType string `json:"job_type"`

	// RouteID and Polyline are set for route_analysis jobs.
	RouteID  string `json:"route_id,omitempty"`
	Polyline string `json:"polyline,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Analysis jobs hold a message for the whole oracle batch.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		warmJob:          cfg.WarmJob,
		analysisService:  cfg.AnalysisService,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var job JobMessage
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch job.JobType {
	case "cache_warm":
		err = h.handleCacheWarm(ctx)
	case "route_analysis":
		err = h.handleRouteAnalysis(ctx, job, logger)
	case "health_check":
		err = h.handleHealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", job.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", job.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleCacheWarm(ctx context.Context) error {
	h.logger.Info().Msg("starting cache warm")

	result := h.warmJob.Run(ctx)

	h.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("total_corridors", result.TotalCorridors).
		Msg("cache warm completed")

	// Consider it successful if more than half succeeded.
	if result.Failed > result.Successful {
		return fmt.Errorf("too many warm failures: %d/%d", result.Failed, result.TotalCorridors)
	}

	return nil
}

func (h *PubSubHandler) handleRouteAnalysis(ctx context.Context, job JobMessage, logger zerolog.Logger) error {
	if h.analysisService == nil {
		return fmt.Errorf("analysis service not configured")
	}

	// Malformed payloads are acked, not retried.
	if job.RouteID == "" || job.Polyline == "" {
		logger.Warn().Str("route_id", job.RouteID).Msg("route analysis message missing fields")
		return nil
	}

	points := polyline.Decode(job.Polyline)
	if len(points) == 0 {
		logger.Warn().Str("route_id", job.RouteID).Msg("route analysis message has empty geometry")
		return nil
	}

	logger.Info().
		Str("route_id", job.RouteID).
		Int("points", len(points)).
		Msg("starting route analysis")

	if _, err := h.analysisService.Analyze(ctx, job.RouteID, points); err != nil {
		if errors.Is(err, analysis.ErrAnalysisInProgress) {
			logger.Info().Str("route_id", job.RouteID).Msg("analysis already running")
			return nil
		}
		return fmt.Errorf("analyzing route %s: %w", job.RouteID, err)
	}

	return nil
}

func (h *PubSubHandler) handleHealthCheck(ctx context.Context) error {
	h.logger.Debug().Msg("running health check")

	// Warm a single cheap corridor to verify provider connectivity.
	healthCheckJob := NewWarmJob(WarmJobConfig{
		Config: WarmConfig{
			Corridors: []Corridor{
				{
					Name:        "health-check",
					Priority:    1,
					Origin:      Point{Lat: 37.7749, Lng: -122.4194}, // San Francisco
					Destination: Point{Lat: 37.8044, Lng: -122.2712}, // Oakland
					Mode:        "DRIVING",
				},
			},
			Concurrency: 1,
			Timeout:     10 * time.Second,
			WarmRoutes:  false, // Skip route fetch for health check
			WarmWeather: true,
		},
		Logger:         h.logger,
		WeatherService: h.warmJob.weatherService,
	})

	result := healthCheckJob.Run(ctx)

	if result.Failed > 0 {
		return fmt.Errorf("health check failed: %d errors", result.Failed)
	}

	h.logger.Debug().Msg("health check passed")
	return nil
}
