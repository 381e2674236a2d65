// Package places provides place search and resolution for route endpoints.
package places

import (
	"context"
	"errors"

	"github.com/saferoute/saferoute/pkg/polyline"
)

// Sentinel errors for place lookups.
var (
	// ErrProviderUnavailable indicates the places provider could not be reached.
	ErrProviderUnavailable = errors.New("places provider unavailable")

	// ErrPlaceNotFound indicates no place matched the given identifier.
	ErrPlaceNotFound = errors.New("place not found")

	// ErrEmptyQuery indicates an empty search query.
	ErrEmptyQuery = errors.New("empty query")
)

// Suggestion is a single autocomplete candidate.
type Suggestion struct {
	PlaceID       string `json:"place_id"`
	Description   string `json:"description"`
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

// Details describes a resolved place.
type Details struct {
	PlaceID  string         `json:"place_id"`
	Name     string         `json:"name"`
	Address  string         `json:"address"`
	Location polyline.Point `json:"location"`
}

// Provider abstracts a place search backend.
type Provider interface {
	// Autocomplete returns suggestions for a partial query.
	Autocomplete(ctx context.Context, query string) ([]Suggestion, error)

	// Details resolves a place ID to its details.
	Details(ctx context.Context, placeID string) (Details, error)

	// Geocode resolves a free-text address to its best-matching place.
	Geocode(ctx context.Context, address string) (Details, error)

	// Name returns the provider name.
	Name() string
}
