package imagery_test

import (
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/imagery"
	"github.com/saferoute/saferoute/pkg/polyline"
)

func newTestSampler(cfg imagery.SamplerConfig) *imagery.Sampler {
	cfg.APIKey = "test-key"
	cfg.Logger = zerolog.New(io.Discard)
	return imagery.NewSampler(cfg)
}

// northwardLine returns a straight track heading due north, roughly
// lengthMeters long. One degree of latitude is about 111km.
func northwardLine(lengthMeters float64) []polyline.Point {
	return []polyline.Point{
		{Lat: 0, Lng: 0},
		{Lat: lengthMeters / 111_000, Lng: 0},
	}
}

func TestSampler_SampleRoute(t *testing.T) {
	sampler := newTestSampler(imagery.SamplerConfig{IntervalMeters: 500})

	frames, err := sampler.SampleRoute(northwardLine(1800))
	require.NoError(t, err)

	// 1.8km at 500m spacing: start, 3 intermediates, end.
	assert.Len(t, frames, 5)

	for _, f := range frames {
		assert.InDelta(t, 0.0, f.HeadingDegrees, 0.5, "headings follow the northward track")
	}
}

func TestSampler_FrameURL(t *testing.T) {
	sampler := newTestSampler(imagery.SamplerConfig{})

	frames, err := sampler.SampleRoute([]polyline.Point{{Lat: -33.92, Lng: 18.42}})
	require.NoError(t, err)
	require.Len(t, frames, 1)

	u, err := url.Parse(frames[0].URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(frames[0].URL, imagery.DefaultBaseURL))
	assert.Equal(t, "-33.92000,18.42000", u.Query().Get("location"))
	assert.Equal(t, "640x640", u.Query().Get("size"))
	assert.Equal(t, "test-key", u.Query().Get("key"))
}

func TestSampler_CapsFrames(t *testing.T) {
	sampler := newTestSampler(imagery.SamplerConfig{IntervalMeters: 500, MaxFrames: 6})

	// 50km route would need ~100 frames at 500m spacing.
	frames, err := sampler.SampleRoute(northwardLine(50_000))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(frames), 6)
	assert.GreaterOrEqual(t, len(frames), 2)
}

func TestSampler_FrameCapFloor(t *testing.T) {
	// A cap of 1 is unreachable since both endpoints are always kept; the
	// sampler must settle on two frames rather than widening forever.
	sampler := newTestSampler(imagery.SamplerConfig{IntervalMeters: 500, MaxFrames: 1})

	frames, err := sampler.SampleRoute(northwardLine(5_000))
	require.NoError(t, err)
	assert.Len(t, frames, 2)
}

func TestSampler_SinglePoint(t *testing.T) {
	sampler := newTestSampler(imagery.SamplerConfig{})

	frames, err := sampler.SampleRoute([]polyline.Point{{Lat: 1, Lng: 1}})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.InDelta(t, 0.0, frames[0].HeadingDegrees, 0.001)
}

func TestSampler_EmptyRoute(t *testing.T) {
	sampler := newTestSampler(imagery.SamplerConfig{})

	_, err := sampler.SampleRoute(nil)
	assert.ErrorIs(t, err, imagery.ErrEmptyRoute)
}

func TestImageRefs(t *testing.T) {
	frames := []imagery.Frame{
		{URL: "https://example.com/a"},
		{URL: "https://example.com/b"},
	}
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, imagery.ImageRefs(frames))
}
