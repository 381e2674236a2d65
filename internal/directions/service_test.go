package directions_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/directions"
	"github.com/saferoute/saferoute/pkg/polyline"
)

type mockProvider struct {
	routes     []directions.RawRoute
	err        error
	fetchCount atomic.Int32
}

func (m *mockProvider) GetRoutes(_ context.Context, _ directions.RoutesRequest) ([]directions.RawRoute, error) {
	m.fetchCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.routes, nil
}

func (m *mockProvider) Name() string { return "mock" }

func testRawRoute() directions.RawRoute {
	overview := polyline.Encode([]polyline.Point{
		{Lat: 12.9716, Lng: 77.5946},
		{Lat: 12.9750, Lng: 77.6000},
	})
	return directions.RawRoute{
		Summary:          "NH 44",
		OverviewPolyline: overview,
		Legs: []directions.RawLeg{{
			DistanceMeters: 12500,
			Duration:       directions.Duration{Seconds: 1800, Text: "30 mins"},
			Steps: []directions.RawStep{
				{TravelMode: directions.ModeWalking, DistanceMeters: 300, Duration: directions.Duration{Seconds: 240}},
				{TravelMode: directions.ModeTransit, DistanceMeters: 12000, Duration: directions.Duration{Seconds: 1440}},
				{TravelMode: directions.ModeWalking, DistanceMeters: 200, Duration: directions.Duration{Seconds: 120}},
			},
		}},
	}
}

func testRequest() directions.RoutesRequest {
	return directions.RoutesRequest{
		Origin:      polyline.Point{Lat: 12.9716, Lng: 77.5946},
		Destination: polyline.Point{Lat: 12.9750, Lng: 77.6000},
		Mode:        directions.ModeTransit,
	}
}

func newService(provider directions.Provider, ttl time.Duration) *directions.Service {
	return directions.NewService(directions.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.New(io.Discard),
		CacheTTL: ttl,
	})
}

func TestGetRoutes_BuildsDisplayRoute(t *testing.T) {
	provider := &mockProvider{routes: []directions.RawRoute{testRawRoute()}}
	svc := newService(provider, 5*time.Minute)

	routes, err := svc.GetRoutes(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, routes, 1)

	route := routes[0]
	assert.NotEmpty(t, route.ID)
	assert.Equal(t, "NH 44", route.Summary)
	assert.Equal(t, 12500, route.DistanceMeters)
	assert.Equal(t, "12.5 km", route.DistanceText)
	assert.Equal(t, 1800, route.DurationSeconds)
	assert.Len(t, route.Points, 2)
	// walk + transit + walk, nothing to merge
	assert.Len(t, route.Steps, 3)
}

func TestGetRoutes_CachesWithinTTL(t *testing.T) {
	provider := &mockProvider{routes: []directions.RawRoute{testRawRoute()}}
	svc := newService(provider, 5*time.Minute)
	ctx := context.Background()

	_, err := svc.GetRoutes(ctx, testRequest())
	require.NoError(t, err)
	_, err = svc.GetRoutes(ctx, testRequest())
	require.NoError(t, err)

	assert.Equal(t, int32(1), provider.fetchCount.Load())
}

func TestGetRoutes_StaleFallbackOnProviderError(t *testing.T) {
	provider := &mockProvider{routes: []directions.RawRoute{testRawRoute()}}
	svc := newService(provider, 10*time.Millisecond)
	ctx := context.Background()

	_, err := svc.GetRoutes(ctx, testRequest())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	provider.err = errors.New("provider down")

	routes, err := svc.GetRoutes(ctx, testRequest())
	require.NoError(t, err)
	assert.Len(t, routes, 1)
}

func TestGetRoutes_ErrorWithoutCachePropagates(t *testing.T) {
	provider := &mockProvider{err: errors.New("provider down")}
	svc := newService(provider, 5*time.Minute)

	_, err := svc.GetRoutes(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestGetRoutes_InvalidCoordinates(t *testing.T) {
	provider := &mockProvider{routes: []directions.RawRoute{testRawRoute()}}
	svc := newService(provider, 5*time.Minute)

	req := testRequest()
	req.Origin.Lat = 91

	_, err := svc.GetRoutes(context.Background(), req)
	assert.ErrorIs(t, err, directions.ErrInvalidCoordinates)
	assert.Equal(t, int32(0), provider.fetchCount.Load())
}

func TestGetRoutes_NoRoutes(t *testing.T) {
	provider := &mockProvider{}
	svc := newService(provider, 5*time.Minute)

	_, err := svc.GetRoutes(context.Background(), testRequest())
	assert.ErrorIs(t, err, directions.ErrNoRouteFound)
}

func TestGetRoute_ByID(t *testing.T) {
	provider := &mockProvider{routes: []directions.RawRoute{testRawRoute()}}
	svc := newService(provider, 5*time.Minute)

	routes, err := svc.GetRoutes(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotEmpty(t, routes)

	got, ok := svc.GetRoute(routes[0].ID)
	require.True(t, ok)
	assert.Equal(t, routes[0].ID, got.ID)
	assert.Equal(t, routes[0].DistanceMeters, got.DistanceMeters)

	_, ok = svc.GetRoute("rt_missing")
	assert.False(t, ok)
}

// gatedProvider stalls requests whose origin latitude matches slowLat until
// release is closed. Everything else answers immediately.
type gatedProvider struct {
	mockProvider
	slowLat float64
	entered chan struct{}
	release chan struct{}
}

func (p *gatedProvider) GetRoutes(ctx context.Context, req directions.RoutesRequest) ([]directions.RawRoute, error) {
	if req.Origin.Lat == p.slowLat {
		close(p.entered)
		<-p.release
	}
	return p.mockProvider.GetRoutes(ctx, req)
}

func TestGetRoutes_SlowFetchDoesNotBlockOtherKeys(t *testing.T) {
	provider := &gatedProvider{
		mockProvider: mockProvider{routes: []directions.RawRoute{testRawRoute()}},
		slowLat:      40.0,
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	svc := newService(provider, 5*time.Minute)
	ctx := context.Background()

	slowReq := testRequest()
	slowReq.Origin.Lat = 40.0
	go func() {
		_, _ = svc.GetRoutes(ctx, slowReq)
	}()

	select {
	case <-provider.entered:
	case <-time.After(time.Second):
		t.Fatal("stalled fetch never reached the provider")
	}
	defer close(provider.release)

	// A fetch for an unrelated origin must complete while the first one is
	// still inside the provider.
	done := make(chan error, 1)
	go func() {
		_, err := svc.GetRoutes(ctx, testRequest())
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("unrelated fetch blocked behind the stalled one")
	}
}

func TestGetRoutes_ConcurrentSameKeyFetchesOnce(t *testing.T) {
	provider := &mockProvider{routes: []directions.RawRoute{testRawRoute()}}
	svc := newService(provider, 5*time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetRoutes(ctx, testRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), provider.fetchCount.Load())
}
