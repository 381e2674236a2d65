// Package handler provides HTTP handlers for the SafeRoute API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/directions"
	"github.com/saferoute/saferoute/internal/places"
	"github.com/saferoute/saferoute/pkg/polyline"
)

// PlaceResolver resolves place IDs and free-text addresses to coordinates.
type PlaceResolver interface {
	Details(ctx context.Context, placeID string) (places.Details, error)
	Geocode(ctx context.Context, address string) (places.Details, error)
}

// RouteHandler handles route computation endpoints.
type RouteHandler struct {
	directions *directions.Service
	places     PlaceResolver
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(dirs *directions.Service, resolver PlaceResolver) *RouteHandler {
	return &RouteHandler{
		directions: dirs,
		places:     resolver,
	}
}

// ComputeRoutes handles POST /v1/routes:compute.
func (h *RouteHandler) ComputeRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.RouteComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	origin, fieldErr := h.resolveEndpoint(r.Context(), "origin", input.Origin, input.OriginPlaceID, input.OriginAddress)
	if fieldErr != nil {
		response.BadRequest(w, r, "invalid route endpoints", []models.FieldError{*fieldErr})
		return
	}
	destination, fieldErr := h.resolveEndpoint(r.Context(), "destination", input.Destination, input.DestinationPlaceID, input.DestinationAddress)
	if fieldErr != nil {
		response.BadRequest(w, r, "invalid route endpoints", []models.FieldError{*fieldErr})
		return
	}

	routes, err := h.directions.GetRoutes(r.Context(), directions.RoutesRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         string(input.Mode),
		Alternatives: input.Alternatives,
	})
	if err != nil {
		switch {
		case errors.Is(err, directions.ErrInvalidCoordinates):
			response.BadRequest(w, r, "coordinates out of range", nil)
		case errors.Is(err, directions.ErrNoRouteFound):
			response.NotFound(w, r, "no route found between the given points")
		default:
			response.ServiceUnavailable(w, r, "route computation is temporarily unavailable")
		}
		return
	}

	resp := models.RouteComputeResponse{
		GeneratedAt: models.Timestamp(time.Now()),
		Routes:      make([]models.Route, 0, len(routes)),
	}
	for _, route := range routes {
		resp.Routes = append(resp.Routes, models.FromRoute(route))
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, resp)
}

// resolveEndpoint turns a coordinate, place ID, or address into a point.
func (h *RouteHandler) resolveEndpoint(ctx context.Context, field string, point *models.Point, placeID, address string) (polyline.Point, *models.FieldError) {
	if point != nil {
		return polyline.Point{Lat: point.Lat, Lng: point.Lng}, nil
	}

	if placeID != "" {
		details, err := h.places.Details(ctx, placeID)
		if err != nil {
			return polyline.Point{}, &models.FieldError{
				Field:   field + "PlaceId",
				Message: "could not resolve place",
			}
		}
		return details.Location, nil
	}

	if address != "" {
		details, err := h.places.Geocode(ctx, address)
		if err != nil {
			return polyline.Point{}, &models.FieldError{
				Field:   field + "Address",
				Message: "could not resolve address",
			}
		}
		return details.Location, nil
	}

	return polyline.Point{}, &models.FieldError{
		Field:   field,
		Message: "coordinates, a place ID, or an address are required",
	}
}
