package directions

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/saferoute/saferoute/pkg/polyline"
)

// ServiceConfig holds configuration for the directions service.
type ServiceConfig struct {
	// Provider is the routing data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache raw provider responses (default: 5 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 15 minutes).
	StaleIfErrorTTL time.Duration
}

// Service fetches candidate routes with caching and turns them into
// display-ready form: consolidated steps plus decoded geometry.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedRoutes
	group singleflight.Group

	routesMu sync.RWMutex
	routes   map[string]Route
}

type cachedRoutes struct {
	routes    []RawRoute
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a directions service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 15 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedRoutes),
		routes:          make(map[string]Route),
	}
}

// GetRoutes returns display-ready candidate routes between two points.
func (s *Service) GetRoutes(ctx context.Context, req RoutesRequest) ([]Route, error) {
	if err := validatePoint(req.Origin); err != nil {
		return nil, fmt.Errorf("%w: origin", ErrInvalidCoordinates)
	}
	if err := validatePoint(req.Destination); err != nil {
		return nil, fmt.Errorf("%w: destination", ErrInvalidCoordinates)
	}
	if req.Mode == "" {
		req.Mode = ModeDriving
	}

	raw, err := s.rawRoutes(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoRouteFound
	}

	routes := make([]Route, 0, len(raw))
	for _, r := range raw {
		route := buildRoute(r)
		routes = append(routes, route)
	}

	// Keep computed routes addressable by ID for later analysis requests.
	s.routesMu.Lock()
	for _, route := range routes {
		s.routes[route.ID] = route
	}
	s.routesMu.Unlock()

	return routes, nil
}

// GetRoute looks up a previously computed route by its ID.
func (s *Service) GetRoute(routeID string) (Route, bool) {
	s.routesMu.RLock()
	defer s.routesMu.RUnlock()
	route, ok := s.routes[routeID]
	return route, ok
}

// rawRoutes returns provider routes, served from cache when fresh.
func (s *Service) rawRoutes(ctx context.Context, req RoutesRequest) ([]RawRoute, error) {
	key := cacheKey(req)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("cache_key", key).
			Msg("cache hit for routes")
		return cached.routes, nil
	}
	s.mu.RUnlock()

	return s.fetchRoutes(ctx, req, key)
}

// fetchRoutes calls the provider with per-key flight coalescing. The map
// mutex guards only cache access, so a slow fetch for one key never blocks
// reads or fetches for other keys.
func (s *Service) fetchRoutes(ctx context.Context, req RoutesRequest, key string) ([]RawRoute, error) {
	v, err, _ := s.group.Do(key, func() (any, error) {
		// Re-check after winning the flight: a previous flight for this
		// key may have filled the cache while we waited.
		s.mu.RLock()
		cached, ok := s.cache[key]
		s.mu.RUnlock()
		if ok && time.Now().Before(cached.expiresAt) {
			return cached.routes, nil
		}

		s.logger.Debug().
			Float64("origin_lat", req.Origin.Lat).
			Float64("origin_lng", req.Origin.Lng).
			Float64("dest_lat", req.Destination.Lat).
			Float64("dest_lng", req.Destination.Lng).
			Str("mode", req.Mode).
			Str("provider", s.provider.Name()).
			Msg("fetching routes from provider")

		routes, err := s.provider.GetRoutes(ctx, req)
		if err != nil {
			s.logger.Error().Err(err).
				Str("cache_key", key).
				Msg("failed to fetch routes")

			// Stale-if-error: an old answer beats no answer for directions.
			if ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Str("cache_key", key).
					Msg("serving stale routes due to provider error")
				return cached.routes, nil
			}

			return nil, err
		}

		now := time.Now()
		s.mu.Lock()
		s.cache[key] = &cachedRoutes{
			routes:    routes,
			fetchedAt: now,
			expiresAt: now.Add(s.cacheTTL),
		}
		s.mu.Unlock()

		return routes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]RawRoute), nil
}

// buildRoute produces the display-ready route: totals, consolidated steps,
// and geometry decoded for rendering.
func buildRoute(raw RawRoute) Route {
	distance := 0
	seconds := 0
	for _, leg := range raw.Legs {
		distance += leg.DistanceMeters
		seconds += leg.Duration.Seconds
	}

	return Route{
		ID:               "rt_" + uuid.New().String()[:12],
		Summary:          raw.Summary,
		DistanceMeters:   distance,
		DistanceText:     FormatDistance(distance),
		DurationSeconds:  seconds,
		DurationText:     FormatDuration(seconds),
		OverviewPolyline: raw.OverviewPolyline,
		Points:           polyline.Decode(raw.OverviewPolyline),
		Steps:            ConsolidateSteps(raw.Legs),
	}
}

// cacheKey quantizes coordinates to ~1.1km grid cells so nearby requests
// share an entry.
func cacheKey(req RoutesRequest) string {
	const grid = 0.01
	return fmt.Sprintf("%s:%.2f,%.2f:%.2f,%.2f",
		req.Mode,
		snap(req.Origin.Lat, grid), snap(req.Origin.Lng, grid),
		snap(req.Destination.Lat, grid), snap(req.Destination.Lng, grid),
	)
}

func snap(v, grid float64) float64 {
	return math.Floor(v/grid) * grid
}

// InvalidateCache clears all cached routes.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedRoutes)
}

// ProviderName returns the underlying provider name.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

func validatePoint(p polyline.Point) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
