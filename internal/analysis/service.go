package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/imagery"
	"github.com/saferoute/saferoute/internal/risk"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/pkg/polyline"
)

// Oracle assesses a single street-level image.
type Oracle interface {
	AssessImage(ctx context.Context, imageRef, hint string) (risk.ScoreResult, error)
}

// WeatherSource provides current conditions for the oracle hint.
type WeatherSource interface {
	GetCurrentWeather(ctx context.Context, lat, lng float64) (*weather.Observation, error)
}

// ServiceConfig holds configuration for the analysis service.
type ServiceConfig struct {
	// Sampler produces imagery frames along a route (required).
	Sampler *imagery.Sampler

	// Scorer runs the bounded batch against the oracle (required).
	Scorer *risk.Scorer

	// Oracle assesses individual frames (required).
	Oracle Oracle

	// Weather provides the conditions hint (optional). Analysis proceeds
	// without a hint when nil or unavailable.
	Weather WeatherSource

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service runs route risk analyses and tracks their lifecycle.
type Service struct {
	sampler *imagery.Sampler
	scorer  *risk.Scorer
	oracle  Oracle
	weather WeatherSource
	logger  zerolog.Logger

	mu       sync.RWMutex
	analyses map[string]*Analysis

	obsMu     sync.RWMutex
	observers []Observer
}

// NewService creates an analysis service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		sampler:  cfg.Sampler,
		scorer:   cfg.Scorer,
		oracle:   cfg.Oracle,
		weather:  cfg.Weather,
		logger:   cfg.Logger,
		analyses: make(map[string]*Analysis),
	}
}

// Subscribe registers an observer for analysis state transitions.
func (s *Service) Subscribe(obs Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, obs)
}

// Get returns the current analysis snapshot for a route. Routes never
// analyzed report StateNotAnalyzed.
func (s *Service) Get(routeID string) Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.analyses[routeID]; ok {
		return *a
	}
	return Analysis{RouteID: routeID, State: StateNotAnalyzed}
}

// Analyze runs a full analysis for the route geometry and blocks until it
// completes. The transition into StateAnalyzing is published before any
// external call. Analyses for distinct routes run independently; a second
// call for a route already in StateAnalyzing returns
// ErrAnalysisInProgress.
func (s *Service) Analyze(ctx context.Context, routeID string, points []polyline.Point) (Analysis, error) {
	started, snapshot := s.markAnalyzing(routeID)
	if !started {
		return snapshot, ErrAnalysisInProgress
	}
	s.notify(snapshot)

	frames, err := s.sampler.SampleRoute(points)
	if err != nil {
		return s.markFailed(routeID, "route has no usable geometry"), nil
	}

	hint := s.weatherHint(ctx, points)

	refs := imagery.ImageRefs(frames)
	batch := s.scorer.ScoreBatch(ctx, refs, func(ctx context.Context, imageRef string) (risk.ScoreResult, error) {
		return s.oracle.AssessImage(ctx, imageRef, hint)
	})

	result := &Result{
		Scores:       batch.Scores,
		Explanations: batch.Explanations,
		Precautions:  batch.Precautions,
		AverageScore: risk.Average(batch.Scores),
		FrameCount:   len(frames),
		WeatherHint:  hint,
	}

	s.logger.Info().
		Str("route_id", routeID).
		Int("frames", len(frames)).
		Int("average_score", result.AverageScore).
		Msg("route analysis completed")

	return s.markAnalyzed(routeID, result), nil
}

// weatherHint builds the conditions summary from the route midpoint.
// Weather failures degrade to an empty hint rather than failing the run.
func (s *Service) weatherHint(ctx context.Context, points []polyline.Point) string {
	if s.weather == nil || len(points) == 0 {
		return ""
	}

	mid := points[len(points)/2]
	obs, err := s.weather.GetCurrentWeather(ctx, mid.Lat, mid.Lng)
	if err != nil {
		s.logger.Warn().Err(err).Msg("weather unavailable, analyzing without conditions hint")
		return ""
	}
	return obs.Describe()
}

// markAnalyzing transitions the route into StateAnalyzing. It reports
// false with the current snapshot when a run is already underway.
func (s *Service) markAnalyzing(routeID string) (bool, Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.analyses[routeID]; ok && existing.State == StateAnalyzing {
		return false, *existing
	}

	a := &Analysis{
		RouteID:   routeID,
		State:     StateAnalyzing,
		StartedAt: time.Now(),
	}
	s.analyses[routeID] = a
	return true, *a
}

func (s *Service) markAnalyzed(routeID string, result *Result) Analysis {
	return s.transition(routeID, func(a *Analysis) {
		a.State = StateAnalyzed
		a.Result = result
		a.FailureReason = ""
		a.CompletedAt = time.Now()
	})
}

func (s *Service) markFailed(routeID, reason string) Analysis {
	return s.transition(routeID, func(a *Analysis) {
		a.State = StateFailed
		a.Result = nil
		a.FailureReason = reason
		a.CompletedAt = time.Now()
	})
}

func (s *Service) transition(routeID string, apply func(*Analysis)) Analysis {
	s.mu.Lock()
	a, ok := s.analyses[routeID]
	if !ok {
		a = &Analysis{RouteID: routeID}
		s.analyses[routeID] = a
	}
	apply(a)
	snapshot := *a
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

func (s *Service) notify(snapshot Analysis) {
	s.obsMu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.obsMu.RUnlock()

	for _, obs := range observers {
		obs(snapshot)
	}
}
