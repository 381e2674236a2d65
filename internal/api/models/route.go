package models

import (
	"github.com/saferoute/saferoute/internal/directions"
)

// RouteComputeRequest is the body for POST /v1/routes:compute.
// Endpoints are given as coordinates, place IDs, or free-text addresses.
type RouteComputeRequest struct {
	Origin      *Point `json:"origin,omitempty"`
	Destination *Point `json:"destination,omitempty"`

	OriginPlaceID      string `json:"originPlaceId,omitempty"`
	DestinationPlaceID string `json:"destinationPlaceId,omitempty"`

	OriginAddress      string `json:"originAddress,omitempty"`
	DestinationAddress string `json:"destinationAddress,omitempty"`

	Mode         TravelMode `json:"mode,omitempty"`
	Alternatives bool       `json:"alternatives,omitempty"`
}

// RouteComputeResponse is the response for POST /v1/routes:compute.
type RouteComputeResponse struct {
	GeneratedAt Timestamp `json:"generatedAt"`
	Routes      []Route   `json:"routes"`
}

// Route is a computed route option ready for display.
type Route struct {
	ID               string      `json:"id"`
	Summary          string      `json:"summary,omitempty"`
	DistanceMeters   int         `json:"distanceMeters"`
	DistanceText     string      `json:"distanceText"`
	DurationSeconds  int         `json:"durationSeconds"`
	DurationText     string      `json:"durationText"`
	OverviewPolyline string      `json:"overviewPolyline"`
	Points           []Point     `json:"points"`
	Steps            []RouteStep `json:"steps"`
}

// RouteStep is one display step of a route.
type RouteStep struct {
	Mode            string       `json:"mode"`
	DurationSeconds int          `json:"durationSeconds"`
	DurationText    string       `json:"durationText"`
	DistanceText    string       `json:"distanceText"`
	Polyline        string       `json:"polyline,omitempty"`
	Transit         *TransitStep `json:"transit,omitempty"`
}

// TransitStep carries transit display details for a step.
type TransitStep struct {
	Line              string `json:"line"`
	Headsign          string `json:"headsign,omitempty"`
	Agency            string `json:"agency,omitempty"`
	Color             string `json:"color"`
	TextColor         string `json:"textColor"`
	DepartureStop     string `json:"departureStop"`
	ArrivalStop       string `json:"arrivalStop"`
	DepartureLocation *Point `json:"departureLocation,omitempty"`
	ArrivalLocation   *Point `json:"arrivalLocation,omitempty"`
	NumStops          int    `json:"numStops,omitempty"`
	DepartureTime     string `json:"departureTime,omitempty"`
	ArrivalTime       string `json:"arrivalTime,omitempty"`
}

// FromRoute converts a domain route into its API representation.
func FromRoute(r directions.Route) Route {
	steps := make([]RouteStep, 0, len(r.Steps))
	for _, s := range r.Steps {
		step := RouteStep{
			Mode:            s.Mode,
			DurationSeconds: s.DurationSeconds,
			DurationText:    s.DurationText,
			DistanceText:    s.DistanceText,
			Polyline:        s.Polyline,
		}
		if s.Transit != nil {
			step.Transit = fromTransitInfo(s.Transit)
		}
		steps = append(steps, step)
	}

	points := make([]Point, len(r.Points))
	for i, p := range r.Points {
		points[i] = Point{Lat: p.Lat, Lng: p.Lng}
	}

	return Route{
		ID:               r.ID,
		Summary:          r.Summary,
		DistanceMeters:   r.DistanceMeters,
		DistanceText:     r.DistanceText,
		DurationSeconds:  r.DurationSeconds,
		DurationText:     r.DurationText,
		OverviewPolyline: r.OverviewPolyline,
		Points:           points,
		Steps:            steps,
	}
}

func fromTransitInfo(t *directions.TransitInfo) *TransitStep {
	step := &TransitStep{
		Line:          t.Line,
		Headsign:      t.Headsign,
		Agency:        t.Agency,
		Color:         t.Color,
		TextColor:     t.TextColor,
		DepartureStop: t.DepartureStop,
		ArrivalStop:   t.ArrivalStop,
		NumStops:      t.NumStops,
		DepartureTime: t.DepartureTime,
		ArrivalTime:   t.ArrivalTime,
	}
	if t.DepartureLocation != nil {
		step.DepartureLocation = &Point{Lat: t.DepartureLocation.Lat, Lng: t.DepartureLocation.Lng}
	}
	if t.ArrivalLocation != nil {
		step.ArrivalLocation = &Point{Lat: t.ArrivalLocation.Lat, Lng: t.ArrivalLocation.Lng}
	}
	return step
}
