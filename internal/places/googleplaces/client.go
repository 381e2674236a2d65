// Package googleplaces implements the places provider on the Google
// Places API.
package googleplaces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/places"
	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/pkg/polyline"
)

const (
	// ProviderName identifies this places provider.
	ProviderName = "googleplaces"

	// DefaultBaseURL is the Places API base URL.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"
)

// ClientConfig holds configuration for the Places API client.
type ClientConfig struct {
	// APIKey is the Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Places API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a Places API client.
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

// Autocomplete returns suggestions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]places.Suggestion, error) {
	params := url.Values{}
	params.Set("input", query)
	params.Set("key", c.apiKey)

	var result autocompleteResponse
	if err := c.get(ctx, "/autocomplete/json?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	switch result.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("%w: status %s", places.ErrProviderUnavailable, result.Status)
	}

	suggestions := make([]places.Suggestion, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		suggestions = append(suggestions, places.Suggestion{
			PlaceID:       p.PlaceID,
			Description:   p.Description,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}
	return suggestions, nil
}

// Details resolves a place ID to its details.
func (c *Client) Details(ctx context.Context, placeID string) (places.Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "place_id,name,formatted_address,geometry")
	params.Set("key", c.apiKey)

	var result detailsResponse
	if err := c.get(ctx, "/details/json?"+params.Encode(), &result); err != nil {
		return places.Details{}, err
	}

	switch result.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return places.Details{}, fmt.Errorf("%w: %s", places.ErrPlaceNotFound, placeID)
	default:
		return places.Details{}, fmt.Errorf("%w: status %s", places.ErrProviderUnavailable, result.Status)
	}

	return places.Details{
		PlaceID: result.Result.PlaceID,
		Name:    result.Result.Name,
		Address: result.Result.FormattedAddress,
		Location: polyline.Point{
			Lat: result.Result.Geometry.Location.Lat,
			Lng: result.Result.Geometry.Location.Lng,
		},
	}, nil
}

// Geocode resolves a free-text address to its best-matching place.
func (c *Client) Geocode(ctx context.Context, address string) (places.Details, error) {
	params := url.Values{}
	params.Set("input", address)
	params.Set("inputtype", "textquery")
	params.Set("fields", "place_id,name,formatted_address,geometry")
	params.Set("key", c.apiKey)

	var result findPlaceResponse
	if err := c.get(ctx, "/findplacefromtext/json?"+params.Encode(), &result); err != nil {
		return places.Details{}, err
	}

	switch result.Status {
	case "OK":
	case "ZERO_RESULTS", "INVALID_REQUEST":
		return places.Details{}, fmt.Errorf("%w: %s", places.ErrPlaceNotFound, address)
	default:
		return places.Details{}, fmt.Errorf("%w: status %s", places.ErrProviderUnavailable, result.Status)
	}

	if len(result.Candidates) == 0 {
		return places.Details{}, fmt.Errorf("%w: %s", places.ErrPlaceNotFound, address)
	}

	// Candidates are ranked; take the best match.
	best := result.Candidates[0]
	return places.Details{
		PlaceID: best.PlaceID,
		Name:    best.Name,
		Address: best.FormattedAddress,
		Location: polyline.Point{
			Lat: best.Geometry.Location.Lat,
			Lng: best.Geometry.Location.Lng,
		},
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Places API response structures.

type autocompleteResponse struct {
	Status      string `json:"status"`
	Predictions []struct {
		PlaceID              string `json:"place_id"`
		Description          string `json:"description"`
		StructuredFormatting struct {
			MainText      string `json:"main_text"`
			SecondaryText string `json:"secondary_text"`
		} `json:"structured_formatting"`
	} `json:"predictions"`
}

type findPlaceResponse struct {
	Status     string `json:"status"`
	Candidates []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"candidates"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
}
