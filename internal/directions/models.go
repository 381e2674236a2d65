// Package directions fetches candidate routes from a routing provider and
// normalizes their raw legs and steps into display-ready form.
package directions

import (
	"context"
	"errors"

	"github.com/saferoute/saferoute/pkg/polyline"
)

// Sentinel errors for directions operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates coordinates outside the valid ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// GetRoutes retrieves candidate routes between two points.
	GetRoutes(ctx context.Context, req RoutesRequest) ([]RawRoute, error)
	// Name returns the provider identifier for logging.
	Name() string
}

// TravelMode is a provider travel-mode tag. TRANSIT and WALKING get dedicated
// handling in consolidation; any other tag passes through as-is.
const (
	ModeTransit = "TRANSIT"
	ModeWalking = "WALKING"
	ModeDriving = "DRIVING"
)

// RoutesRequest is the request for fetching candidate routes.
type RoutesRequest struct {
	Origin       polyline.Point
	Destination  polyline.Point
	Mode         string // preferred travel mode (default: DRIVING)
	Alternatives bool   // request route alternatives when supported
}

// Duration pairs raw seconds with the provider's human-readable text.
type Duration struct {
	Seconds int
	Text    string
}

// RawRoute is a candidate route as returned by the provider. Read-only input
// to consolidation.
type RawRoute struct {
	Summary          string
	OverviewPolyline string
	Legs             []RawLeg
}

// RawLeg is one origin-to-destination segment of a raw route.
type RawLeg struct {
	StartAddress   string
	EndAddress     string
	DistanceMeters int
	Duration       Duration
	Steps          []RawStep
}

// RawStep is a single provider step within a leg.
type RawStep struct {
	TravelMode     string
	DistanceMeters int
	Duration       Duration
	Polyline       string
	Instruction    string
	Transit        *TransitDetails
}

// TransitDetails is the transit metadata attached to TRANSIT steps.
type TransitDetails struct {
	Line          TransitLine
	Headsign      string
	NumStops      int
	DepartureStop *Stop
	ArrivalStop   *Stop
	DepartureTime string
	ArrivalTime   string
}

// TransitLine describes the transit line serving a step.
type TransitLine struct {
	ShortName string
	Name      string
	Color     string
	TextColor string
	Agency    string
	Vehicle   string // provider vehicle type tag, e.g. "BUS", "SUBWAY"
}

// Stop is a transit stop, optionally georeferenced.
type Stop struct {
	Name     string
	Location *polyline.Point
}

// StepKind tags a normalized step.
type StepKind string

const (
	StepTransit StepKind = "transit"
	StepWalk    StepKind = "walk"
	StepOther   StepKind = "other"
)

// NormalizedStep is one human-meaningful step of a route after consolidation.
// Created once per consolidation pass and immutable thereafter.
type NormalizedStep struct {
	Kind            StepKind
	Mode            string // lower-cased vehicle kind, "walking", or the raw tag for other modes
	DurationSeconds int
	DurationText    string
	DistanceText    string
	Polyline        string
	Transit         *TransitInfo // set only when Kind == StepTransit
}

// TransitInfo carries the derived display fields for a transit step.
type TransitInfo struct {
	Line              string
	Headsign          string
	Agency            string
	Color             string
	TextColor         string
	DepartureStop     string
	ArrivalStop       string
	DepartureLocation *polyline.Point
	ArrivalLocation   *polyline.Point
	NumStops          int
	DepartureTime     string
	ArrivalTime       string
}

// Route is a display-ready candidate route: consolidated steps plus decoded
// geometry for rendering.
type Route struct {
	ID               string
	Summary          string
	DistanceMeters   int
	DistanceText     string
	DurationSeconds  int
	DurationText     string
	OverviewPolyline string
	Points           []polyline.Point
	Steps            []NormalizedStep
}
