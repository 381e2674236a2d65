// Package googlemaps implements the directions provider on the Google
// Directions API.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/directions"
	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "googlemaps"

	// DefaultBaseURL is the Directions API base URL.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/directions"
)

// ClientConfig holds configuration for the Directions API client.
type ClientConfig struct {
	// APIKey is the Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Directions API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a Directions API client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: ProviderName})
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetRoutes fetches candidate routes between two points.
func (c *Client) GetRoutes(ctx context.Context, req directions.RoutesRequest) ([]directions.RawRoute, error) {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%.6f,%.6f", req.Origin.Lat, req.Origin.Lng))
	params.Set("destination", fmt.Sprintf("%.6f,%.6f", req.Destination.Lat, req.Destination.Lng))
	params.Set("mode", strings.ToLower(req.Mode))
	params.Set("key", c.apiKey)
	if req.Alternatives {
		params.Set("alternatives", "true")
	}

	endpoint := c.baseURL + "/json?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var dirResp directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dirResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch dirResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, directions.ErrNoRouteFound
	default:
		return nil, fmt.Errorf("%w: status %s", directions.ErrProviderUnavailable, dirResp.Status)
	}

	routes := make([]directions.RawRoute, 0, len(dirResp.Routes))
	for _, r := range dirResp.Routes {
		routes = append(routes, toRawRoute(r))
	}
	return routes, nil
}

// toRawRoute converts a Directions API route to the domain model.
func toRawRoute(r apiRoute) directions.RawRoute {
	route := directions.RawRoute{
		Summary:          r.Summary,
		OverviewPolyline: r.OverviewPolyline.Points,
		Legs:             make([]directions.RawLeg, 0, len(r.Legs)),
	}

	for _, l := range r.Legs {
		leg := directions.RawLeg{
			StartAddress:   l.StartAddress,
			EndAddress:     l.EndAddress,
			DistanceMeters: l.Distance.Value,
			Duration: directions.Duration{
				Seconds: l.Duration.Value,
				Text:    l.Duration.Text,
			},
			Steps: make([]directions.RawStep, 0, len(l.Steps)),
		}

		for _, s := range l.Steps {
			step := directions.RawStep{
				TravelMode:     s.TravelMode,
				DistanceMeters: s.Distance.Value,
				Duration: directions.Duration{
					Seconds: s.Duration.Value,
					Text:    s.Duration.Text,
				},
				Polyline:    s.Polyline.Points,
				Instruction: s.HTMLInstructions,
			}
			if s.TransitDetails != nil {
				step.Transit = toTransitDetails(s.TransitDetails)
			}
			leg.Steps = append(leg.Steps, step)
		}

		route.Legs = append(route.Legs, leg)
	}

	return route
}

func toTransitDetails(d *apiTransitDetails) *directions.TransitDetails {
	details := &directions.TransitDetails{
		Line: directions.TransitLine{
			ShortName: d.Line.ShortName,
			Name:      d.Line.Name,
			Color:     d.Line.Color,
			TextColor: d.Line.TextColor,
			Vehicle:   d.Line.Vehicle.Type,
		},
		Headsign:      d.Headsign,
		NumStops:      d.NumStops,
		DepartureTime: d.DepartureTime.Text,
		ArrivalTime:   d.ArrivalTime.Text,
	}

	if len(d.Line.Agencies) > 0 {
		details.Line.Agency = d.Line.Agencies[0].Name
	}
	if d.DepartureStop != nil {
		details.DepartureStop = toStop(d.DepartureStop)
	}
	if d.ArrivalStop != nil {
		details.ArrivalStop = toStop(d.ArrivalStop)
	}

	return details
}

func toStop(s *apiStop) *directions.Stop {
	stop := &directions.Stop{Name: s.Name}
	if s.Location != nil {
		stop.Location = &polyline.Point{Lat: s.Location.Lat, Lng: s.Location.Lng}
	}
	return stop
}

// Directions API response structures.

type directionsResponse struct {
	Status string     `json:"status"`
	Routes []apiRoute `json:"routes"`
}

type apiRoute struct {
	Summary          string `json:"summary"`
	OverviewPolyline struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
	Legs []apiLeg `json:"legs"`
}

type apiLeg struct {
	StartAddress string       `json:"start_address"`
	EndAddress   string       `json:"end_address"`
	Distance     apiValueText `json:"distance"`
	Duration     apiValueText `json:"duration"`
	Steps        []apiStep    `json:"steps"`
}

type apiStep struct {
	TravelMode string       `json:"travel_mode"`
	Distance   apiValueText `json:"distance"`
	Duration   apiValueText `json:"duration"`
	Polyline   struct {
		Points string `json:"points"`
	} `json:"polyline"`
	HTMLInstructions string             `json:"html_instructions"`
	TransitDetails   *apiTransitDetails `json:"transit_details,omitempty"`
}

type apiValueText struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type apiTransitDetails struct {
	Line struct {
		ShortName string `json:"short_name"`
		Name      string `json:"name"`
		Color     string `json:"color"`
		TextColor string `json:"text_color"`
		Agencies  []struct {
			Name string `json:"name"`
		} `json:"agencies"`
		Vehicle struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"vehicle"`
	} `json:"line"`
	Headsign      string       `json:"headsign"`
	NumStops      int          `json:"num_stops"`
	DepartureStop *apiStop     `json:"departure_stop,omitempty"`
	ArrivalStop   *apiStop     `json:"arrival_stop,omitempty"`
	DepartureTime apiTimeLabel `json:"departure_time"`
	ArrivalTime   apiTimeLabel `json:"arrival_time"`
}

type apiStop struct {
	Name     string `json:"name"`
	Location *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location,omitempty"`
}

type apiTimeLabel struct {
	Text string `json:"text"`
}
