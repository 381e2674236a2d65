package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/directions"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/pkg/polyline"
)

// WarmJob keeps the directions and weather caches populated for popular
// corridors.
type WarmJob struct {
	config WarmConfig
	logger zerolog.Logger

	// Services (optional, nil if not configured)
	directionsService *directions.Service
	weatherService    *weather.Service

	// Metrics
	metrics *WarmMetrics
}

// WarmMetrics tracks warm job statistics.
type WarmMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns       int64
	SuccessfulWarms int64
	FailedWarms     int64
	RouteWarms      int64
	WeatherWarms    int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// WarmJobConfig holds configuration for creating a WarmJob.
type WarmJobConfig struct {
	Config            WarmConfig
	Logger            zerolog.Logger
	DirectionsService *directions.Service
	WeatherService    *weather.Service
}

// NewWarmJob creates a new cache warm job processor.
func NewWarmJob(cfg WarmJobConfig) *WarmJob {
	config := cfg.Config
	if len(config.Corridors) == 0 {
		config = DefaultWarmConfig()
	}

	return &WarmJob{
		config:            config,
		logger:            cfg.Logger,
		directionsService: cfg.DirectionsService,
		weatherService:    cfg.WeatherService,
		metrics:           &WarmMetrics{},
	}
}

// WarmResult contains the result of a warm run.
type WarmResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalCorridors int
	Successful     int
	Failed         int
	Errors         []WarmError
}

// WarmError represents an error during a warm run.
type WarmError struct {
	Stage    string
	Corridor string
	Error    string
}

// Run executes the warm job for all configured corridors.
func (j *WarmJob) Run(ctx context.Context) *WarmResult {
	startTime := time.Now()
	result := &WarmResult{
		StartTime:      startTime,
		TotalCorridors: j.config.TotalCorridors(),
	}

	j.logger.Info().
		Int("total_corridors", result.TotalCorridors).
		Int("concurrency", j.config.Concurrency).
		Msg("starting cache warm job")

	corridors := j.config.OrderedCorridors()

	corridorsChan := make(chan Corridor, len(corridors))
	resultsChan := make(chan corridorResult, len(corridors))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.warmWorker(ctx, corridorsChan, resultsChan)
		}()
	}

	for _, c := range corridors {
		corridorsChan <- c
	}
	close(corridorsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for cr := range resultsChan {
		if cr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, cr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("cache warm job completed")

	return result
}

type corridorResult struct {
	corridor Corridor
	success  bool
	errors   []WarmError
}

func (j *WarmJob) warmWorker(ctx context.Context, corridors <-chan Corridor, results chan<- corridorResult) {
	for corridor := range corridors {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.warmCorridor(ctx, corridor)
		}
	}
}

func (j *WarmJob) warmCorridor(ctx context.Context, corridor Corridor) corridorResult {
	result := corridorResult{
		corridor: corridor,
		success:  true,
	}

	corridorCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if j.config.WarmRoutes && j.directionsService != nil {
		if err := j.warmRoutes(corridorCtx, corridor); err != nil {
			result.errors = append(result.errors, WarmError{
				Stage:    "directions",
				Corridor: corridor.Name,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.RouteWarms, 1)
		}
	}

	if j.config.WarmWeather && j.weatherService != nil {
		for _, p := range []Point{corridor.Origin, corridor.Destination} {
			if err := j.warmWeather(corridorCtx, p); err != nil {
				result.errors = append(result.errors, WarmError{
					Stage:    "weather",
					Corridor: corridor.Name,
					Error:    err.Error(),
				})
				// Weather misses are non-fatal; analysis degrades to no hint.
			} else {
				atomic.AddInt64(&j.metrics.WeatherWarms, 1)
			}
		}
	}

	return result
}

func (j *WarmJob) warmRoutes(ctx context.Context, corridor Corridor) error {
	_, err := j.directionsService.GetRoutes(ctx, directions.RoutesRequest{
		Origin:       polyline.Point{Lat: corridor.Origin.Lat, Lng: corridor.Origin.Lng},
		Destination:  polyline.Point{Lat: corridor.Destination.Lat, Lng: corridor.Destination.Lng},
		Mode:         corridor.Mode,
		Alternatives: true,
	})
	return err
}

func (j *WarmJob) warmWeather(ctx context.Context, point Point) error {
	_, err := j.weatherService.GetCurrentWeather(ctx, point.Lat, point.Lng)
	return err
}

func (j *WarmJob) updateMetrics(result *WarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulWarms += int64(result.Successful)
	j.metrics.FailedWarms += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WarmJob) GetMetrics() WarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WarmMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		SuccessfulWarms: j.metrics.SuccessfulWarms,
		FailedWarms:     j.metrics.FailedWarms,
		RouteWarms:      j.metrics.RouteWarms,
		WeatherWarms:    j.metrics.WeatherWarms,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *WarmJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"successful_warms":  m.SuccessfulWarms,
		"failed_warms":      m.FailedWarms,
		"route_warms":       m.RouteWarms,
		"weather_warms":     m.WeatherWarms,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
