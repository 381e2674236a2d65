package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/places"
)

// PlaceHandler handles place search endpoints.
type PlaceHandler struct {
	places *places.Service
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(svc *places.Service) *PlaceHandler {
	return &PlaceHandler{places: svc}
}

// Autocomplete handles GET /v1/places:autocomplete?q=...
func (h *PlaceHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	suggestions, err := h.places.Autocomplete(r.Context(), query)
	if err != nil {
		if errors.Is(err, places.ErrEmptyQuery) {
			response.BadRequest(w, r, "query parameter q is required", []models.FieldError{
				{Field: "q", Message: "required"},
			})
			return
		}
		response.ServiceUnavailable(w, r, "place search is temporarily unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.FromSuggestions(suggestions))
}

// GetDetails handles GET /v1/places/{placeId}.
func (h *PlaceHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeId")

	details, err := h.places.Details(r.Context(), placeID)
	if err != nil {
		if errors.Is(err, places.ErrPlaceNotFound) {
			response.NotFound(w, r, "place not found")
			return
		}
		response.ServiceUnavailable(w, r, "place lookup is temporarily unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.FromDetails(details))
}
