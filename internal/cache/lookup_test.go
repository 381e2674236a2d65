package cache_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/cache"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "amsterdam centraal", cache.NormalizeKey("  Amsterdam Centraal "))
	assert.Equal(t, "", cache.NormalizeKey("   "))
}

func TestGetOrFetch_FreshHitSkipsFetch(t *testing.T) {
	lookup := cache.NewLookup[string](cache.Config{
		Name:   "test",
		Logger: zerolog.New(io.Discard),
		TTL:    5 * time.Minute,
	})

	var calls atomic.Int32
	fetch := func(_ context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	ctx := context.Background()

	got, err := lookup.GetOrFetch(ctx, "Key", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	// Same key modulo normalization, within TTL: no second fetch.
	got, err = lookup.GetOrFetch(ctx, "  key ", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrFetch_StaleEntryRefetches(t *testing.T) {
	lookup := cache.NewLookup[int](cache.Config{
		Name:   "test",
		Logger: zerolog.New(io.Discard),
		TTL:    10 * time.Millisecond,
	})

	var calls atomic.Int32
	fetch := func(_ context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	ctx := context.Background()

	got, err := lookup.GetOrFetch(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	time.Sleep(20 * time.Millisecond)

	got, err = lookup.GetOrFetch(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestGetOrFetch_StaleFallbackOnError(t *testing.T) {
	lookup := cache.NewLookup[string](cache.Config{
		Name:   "test",
		Logger: zerolog.New(io.Discard),
		TTL:    10 * time.Millisecond,
	})

	ctx := context.Background()

	got, err := lookup.GetOrFetch(ctx, "k", func(_ context.Context) (string, error) {
		return "first", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	time.Sleep(20 * time.Millisecond)

	// Entry is now outside the TTL; a failing fetch should fall back to it.
	got, err = lookup.GetOrFetch(ctx, "k", func(_ context.Context) (string, error) {
		return "", errors.New("provider down")
	})
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestGetOrFetch_ErrorWithoutEntryPropagates(t *testing.T) {
	lookup := cache.NewLookup[string](cache.Config{
		Name:   "test",
		Logger: zerolog.New(io.Discard),
	})

	wantErr := errors.New("provider down")
	_, err := lookup.GetOrFetch(context.Background(), "missing", func(_ context.Context) (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestGetOrFetch_FetchTimeoutApplied(t *testing.T) {
	lookup := cache.NewLookup[string](cache.Config{
		Name:         "test",
		Logger:       zerolog.New(io.Discard),
		FetchTimeout: 20 * time.Millisecond,
	})

	_, err := lookup.GetOrFetch(context.Background(), "slow", func(ctx context.Context) (string, error) {
		select {
		case <-time.After(time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStats(t *testing.T) {
	lookup := cache.NewLookup[string](cache.Config{
		Name:   "places",
		Logger: zerolog.New(io.Discard),
		TTL:    5 * time.Minute,
	})

	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		_, err := lookup.GetOrFetch(ctx, key, func(_ context.Context) (string, error) {
			return key, nil
		})
		require.NoError(t, err)
	}

	stats := lookup.Stats()
	assert.Equal(t, "places", stats.Name)
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 3, stats.FreshEntries)
}
