// Package imagery turns a route geometry into street-level image
// references for risk assessment.
package imagery

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/pkg/polyline"
)

// ErrEmptyRoute indicates the route has no usable geometry.
var ErrEmptyRoute = errors.New("route has no geometry")

const (
	// DefaultIntervalMeters is the spacing between sampled frames.
	DefaultIntervalMeters = 500.0

	// DefaultMaxFrames caps frames per route to bound oracle cost.
	DefaultMaxFrames = 24

	// DefaultImageSize is the requested image dimensions.
	DefaultImageSize = "640x640"

	// DefaultBaseURL is the Street View Static API base URL.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/streetview"
)

// Frame is a single street-level viewpoint along a route.
type Frame struct {
	// Location is the camera position.
	Location polyline.Point `json:"location"`

	// HeadingDegrees is the camera heading, following the direction of
	// travel at this point (0 = north, clockwise).
	HeadingDegrees float64 `json:"heading_degrees"`

	// URL is the image reference handed to the vision oracle.
	URL string `json:"url"`
}

// SamplerConfig holds configuration for the imagery sampler.
type SamplerConfig struct {
	// APIKey is the Street View Static API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// IntervalMeters is the spacing between frames (optional, default 500).
	IntervalMeters float64

	// MaxFrames caps frames per route (optional, default 24).
	MaxFrames int

	// ImageSize is the requested dimensions (optional, default 640x640).
	ImageSize string

	// Logger for sampler operations.
	Logger zerolog.Logger
}

// Sampler produces street-level frames along route geometry.
type Sampler struct {
	apiKey         string
	baseURL        string
	intervalMeters float64
	maxFrames      int
	imageSize      string
	logger         zerolog.Logger
}

// NewSampler creates an imagery sampler.
func NewSampler(cfg SamplerConfig) *Sampler {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	interval := cfg.IntervalMeters
	if interval <= 0 {
		interval = DefaultIntervalMeters
	}

	maxFrames := cfg.MaxFrames
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	// Sampling always keeps both endpoints, so a cap below 2 is unreachable.
	if maxFrames < 2 {
		maxFrames = 2
	}

	imageSize := cfg.ImageSize
	if imageSize == "" {
		imageSize = DefaultImageSize
	}

	return &Sampler{
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		intervalMeters: interval,
		maxFrames:      maxFrames,
		imageSize:      imageSize,
		logger:         cfg.Logger,
	}
}

// SampleRoute returns evenly spaced frames along the route's points.
// Each frame's heading follows the direction of travel toward the next
// sampled point; the final frame keeps the previous heading.
func (s *Sampler) SampleRoute(points []polyline.Point) ([]Frame, error) {
	if len(points) == 0 {
		return nil, ErrEmptyRoute
	}

	interval := s.intervalMeters
	sampled := polyline.SampleEvery(points, interval)

	// Widen the spacing until the route fits the frame cap. Two frames is
	// the floor because SampleEvery keeps both endpoints.
	for len(sampled) > s.maxFrames && len(sampled) > 2 {
		interval *= 2
		sampled = polyline.SampleEvery(points, interval)
	}

	frames := make([]Frame, 0, len(sampled))
	heading := 0.0
	for i, p := range sampled {
		if i < len(sampled)-1 {
			heading = polyline.BearingDegrees(p, sampled[i+1])
		}
		frames = append(frames, Frame{
			Location:       p,
			HeadingDegrees: heading,
			URL:            s.frameURL(p, heading),
		})
	}

	s.logger.Debug().
		Int("points", len(points)).
		Int("frames", len(frames)).
		Float64("interval_m", interval).
		Msg("sampled route imagery")

	return frames, nil
}

// frameURL builds the Street View Static API URL for one viewpoint.
func (s *Sampler) frameURL(p polyline.Point, heading float64) string {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng))
	params.Set("heading", fmt.Sprintf("%.0f", heading))
	params.Set("size", s.imageSize)
	params.Set("key", s.apiKey)
	return s.baseURL + "?" + params.Encode()
}

// ImageRefs returns just the frame URLs, in route order.
func ImageRefs(frames []Frame) []string {
	refs := make([]string, len(frames))
	for i, f := range frames {
		refs[i] = f.URL
	}
	return refs
}
