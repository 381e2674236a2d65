// Package analysis orchestrates route risk analysis: sampling street
// imagery along a route, scoring it through the vision oracle, and
// tracking per-route lifecycle state.
package analysis

import (
	"errors"
	"time"
)

// Analysis errors.
var (
	// ErrAnalysisInProgress indicates the route is already being analyzed.
	ErrAnalysisInProgress = errors.New("analysis already in progress")

	// ErrRouteNotFound indicates no route is known under the given ID.
	ErrRouteNotFound = errors.New("route not found")
)

// State is the analysis lifecycle state of a route.
type State string

const (
	// StateNotAnalyzed is the initial state before any analysis.
	StateNotAnalyzed State = "NOT_ANALYZED"

	// StateAnalyzing means an analysis run is underway.
	StateAnalyzing State = "ANALYZING"

	// StateAnalyzed means the last run completed with results.
	StateAnalyzed State = "ANALYZED"

	// StateFailed means the last run could not produce results.
	StateFailed State = "FAILED"
)

// Result holds the outcome of a completed analysis. The three slices are
// index-aligned with the sampled frames.
type Result struct {
	Scores       []int    `json:"scores"`
	Explanations []string `json:"explanations"`
	Precautions  []string `json:"precautions"`

	// AverageScore is the mean of Scores rounded to the nearest integer,
	// 0 when no frames were scored.
	AverageScore int `json:"average_score"`

	// FrameCount is the number of imagery frames assessed.
	FrameCount int `json:"frame_count"`

	// WeatherHint is the conditions summary given to the oracle, empty
	// when weather was unavailable.
	WeatherHint string `json:"weather_hint,omitempty"`
}

// Analysis is a snapshot of a route's analysis lifecycle.
type Analysis struct {
	RouteID string `json:"route_id"`
	State   State  `json:"state"`

	// Result is set only in StateAnalyzed.
	Result *Result `json:"result,omitempty"`

	// FailureReason is set only in StateFailed.
	FailureReason string `json:"failure_reason,omitempty"`

	StartedAt   time.Time `json:"started_at,omitzero"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// Observer receives a snapshot on every state transition. Observers are
// called synchronously, including for the transition into StateAnalyzing
// before any external call is made.
type Observer func(Analysis)
