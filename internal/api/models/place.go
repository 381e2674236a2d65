package models

import (
	"github.com/saferoute/saferoute/internal/places"
)

// AutocompleteResponse is the response for GET /v1/places:autocomplete.
type AutocompleteResponse struct {
	Suggestions []PlaceSuggestion `json:"suggestions"`
}

// PlaceSuggestion is one autocomplete candidate.
type PlaceSuggestion struct {
	PlaceID       string `json:"placeId"`
	Description   string `json:"description"`
	MainText      string `json:"mainText,omitempty"`
	SecondaryText string `json:"secondaryText,omitempty"`
}

// PlaceDetails is the response for GET /v1/places/{placeId}.
type PlaceDetails struct {
	PlaceID  string `json:"placeId"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Location Point  `json:"location"`
}

// FromSuggestions converts domain suggestions into their API representation.
func FromSuggestions(suggestions []places.Suggestion) AutocompleteResponse {
	out := make([]PlaceSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, PlaceSuggestion{
			PlaceID:       s.PlaceID,
			Description:   s.Description,
			MainText:      s.MainText,
			SecondaryText: s.SecondaryText,
		})
	}
	return AutocompleteResponse{Suggestions: out}
}

// FromDetails converts domain place details into their API representation.
func FromDetails(d places.Details) PlaceDetails {
	return PlaceDetails{
		PlaceID: d.PlaceID,
		Name:    d.Name,
		Address: d.Address,
		Location: Point{
			Lat: d.Location.Lat,
			Lng: d.Location.Lng,
		},
	}
}
