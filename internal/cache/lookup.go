// Package cache provides a generic memoizing layer for external lookups with
// TTL freshness and degrade-to-stale behavior on provider errors.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds configuration for a Lookup cache.
type Config struct {
	// Name identifies the cache in logs.
	Name string

	// Logger for cache operations.
	Logger zerolog.Logger

	// TTL is how long an entry stays fresh (default: 5 minutes).
	TTL time.Duration

	// FetchTimeout bounds each underlying fetch call (default: 5 seconds).
	FetchTimeout time.Duration
}

// Lookup memoizes the results of an external lookup keyed by a normalized
// request signature. Entries are never evicted; stale entries are overwritten
// on a successful refresh and may be served as a fallback when the underlying
// fetch fails.
type Lookup[T any] struct {
	name         string
	logger       zerolog.Logger
	ttl          time.Duration
	fetchTimeout time.Duration

	mu      sync.RWMutex
	entries map[string]entry[T]
}

type entry[T any] struct {
	value     T
	createdAt time.Time
}

// NewLookup creates a Lookup cache with defaults applied.
func NewLookup[T any](cfg Config) *Lookup[T] {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = 5 * time.Second
	}

	return &Lookup[T]{
		name:         cfg.Name,
		logger:       cfg.Logger,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		entries:      make(map[string]entry[T]),
	}
}

// NormalizeKey trims and lower-cases a text key so equivalent requests share
// an entry.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// GetOrFetch returns the cached value for key when fresh, otherwise invokes
// fetch (bounded by the fetch timeout) and stores the result. When the fetch
// fails and any entry exists for the key, the stale value is returned instead
// of the error; with no entry at all the error propagates.
func (l *Lookup[T]) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	key = NormalizeKey(key)

	l.mu.RLock()
	cached, ok := l.entries[key]
	l.mu.RUnlock()

	if ok && time.Since(cached.createdAt) < l.ttl {
		l.logger.Debug().
			Str("cache", l.name).
			Str("key", key).
			Msg("cache hit")
		return cached.value, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	value, err := fetch(fetchCtx)
	if err != nil {
		if ok {
			l.logger.Warn().
				Err(err).
				Str("cache", l.name).
				Str("key", key).
				Time("created_at", cached.createdAt).
				Msg("serving stale entry due to lookup error")
			return cached.value, nil
		}

		l.logger.Error().
			Err(err).
			Str("cache", l.name).
			Str("key", key).
			Msg("lookup failed with no cached fallback")
		var zero T
		return zero, err
	}

	l.mu.Lock()
	l.entries[key] = entry[T]{value: value, createdAt: time.Now()}
	l.mu.Unlock()

	return value, nil
}

// Peek returns the cached value for key regardless of freshness.
func (l *Lookup[T]) Peek(key string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cached, ok := l.entries[NormalizeKey(key)]
	return cached.value, ok
}

// Invalidate clears all entries.
func (l *Lookup[T]) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]entry[T])
}

// Stats returns entry counts for observability endpoints.
func (l *Lookup[T]) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	fresh := 0
	for _, e := range l.entries {
		if time.Since(e.createdAt) < l.ttl {
			fresh++
		}
	}

	return Stats{
		Name:         l.name,
		TotalEntries: len(l.entries),
		FreshEntries: fresh,
	}
}

// Stats contains cache statistics.
type Stats struct {
	Name         string
	TotalEntries int
	FreshEntries int
}
