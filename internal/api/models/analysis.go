package models

import (
	"github.com/saferoute/saferoute/internal/analysis"
)

// AnalysisResponse is the response for analysis endpoints.
type AnalysisResponse struct {
	RouteID string `json:"routeId"`
	State   string `json:"state"`

	// AverageScore and Frames are present only when State is ANALYZED.
	AverageScore *int              `json:"averageScore,omitempty"`
	Frames       []FrameAssessment `json:"frames,omitempty"`
	WeatherHint  string            `json:"weatherHint,omitempty"`

	// FailureReason is present only when State is FAILED.
	FailureReason string `json:"failureReason,omitempty"`

	StartedAt   *Timestamp `json:"startedAt,omitempty"`
	CompletedAt *Timestamp `json:"completedAt,omitempty"`
}

// FrameAssessment is the risk assessment for one sampled street image.
type FrameAssessment struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
	Precaution  string `json:"precaution"`
}

// FromAnalysis converts a domain analysis snapshot into its API representation.
func FromAnalysis(a analysis.Analysis) AnalysisResponse {
	resp := AnalysisResponse{
		RouteID:       a.RouteID,
		State:         string(a.State),
		FailureReason: a.FailureReason,
	}

	if !a.StartedAt.IsZero() {
		ts := Timestamp(a.StartedAt)
		resp.StartedAt = &ts
	}
	if !a.CompletedAt.IsZero() {
		ts := Timestamp(a.CompletedAt)
		resp.CompletedAt = &ts
	}

	if a.Result != nil {
		avg := a.Result.AverageScore
		resp.AverageScore = &avg
		resp.WeatherHint = a.Result.WeatherHint

		frames := make([]FrameAssessment, len(a.Result.Scores))
		for i := range a.Result.Scores {
			frames[i] = FrameAssessment{
				Score:       a.Result.Scores[i],
				Explanation: a.Result.Explanations[i],
				Precaution:  a.Result.Precautions[i],
			}
		}
		resp.Frames = frames
	}

	return resp
}
