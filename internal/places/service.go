package places

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/cache"
)

// ServiceConfig holds configuration for the places service.
type ServiceConfig struct {
	// Provider is the place search backend (required).
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long lookups stay fresh (optional, default 5m).
	CacheTTL time.Duration

	// FetchTimeout bounds a single provider call (optional, default 5s).
	FetchTimeout time.Duration
}

// Service provides cached place search and resolution.
type Service struct {
	provider Provider
	logger   zerolog.Logger

	suggestions *cache.Lookup[[]Suggestion]
	details     *cache.Lookup[Details]
	geocodes    *cache.Lookup[Details]
}

// NewService creates a places service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		suggestions: cache.NewLookup[[]Suggestion](cache.Config{
			Name:         "place_suggestions",
			Logger:       cfg.Logger,
			TTL:          cfg.CacheTTL,
			FetchTimeout: cfg.FetchTimeout,
		}),
		details: cache.NewLookup[Details](cache.Config{
			Name:         "place_details",
			Logger:       cfg.Logger,
			TTL:          cfg.CacheTTL,
			FetchTimeout: cfg.FetchTimeout,
		}),
		geocodes: cache.NewLookup[Details](cache.Config{
			Name:         "place_geocode",
			Logger:       cfg.Logger,
			TTL:          cfg.CacheTTL,
			FetchTimeout: cfg.FetchTimeout,
		}),
	}
}

// Autocomplete returns suggestions for a partial query. Results are cached
// per normalized query, and a cached result is served when the provider
// fails.
func (s *Service) Autocomplete(ctx context.Context, query string) ([]Suggestion, error) {
	key := cache.NormalizeKey(query)
	if key == "" {
		return nil, ErrEmptyQuery
	}

	return s.suggestions.GetOrFetch(ctx, query, func(ctx context.Context) ([]Suggestion, error) {
		return s.provider.Autocomplete(ctx, query)
	})
}

// Details resolves a place ID, caching per normalized ID.
func (s *Service) Details(ctx context.Context, placeID string) (Details, error) {
	key := cache.NormalizeKey(placeID)
	if key == "" {
		return Details{}, ErrPlaceNotFound
	}

	return s.details.GetOrFetch(ctx, placeID, func(ctx context.Context) (Details, error) {
		return s.provider.Details(ctx, placeID)
	})
}

// Geocode resolves a free-text address, caching per normalized address.
func (s *Service) Geocode(ctx context.Context, address string) (Details, error) {
	key := cache.NormalizeKey(address)
	if key == "" {
		return Details{}, ErrEmptyQuery
	}

	return s.geocodes.GetOrFetch(ctx, address, func(ctx context.Context) (Details, error) {
		return s.provider.Geocode(ctx, address)
	})
}

// CacheStats reports cache population for readiness endpoints.
func (s *Service) CacheStats() []cache.Stats {
	return []cache.Stats{
		s.suggestions.Stats(),
		s.details.Stats(),
		s.geocodes.Stats(),
	}
}

// ProviderName returns the underlying provider's name.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
