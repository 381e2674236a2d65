// Package risk scores street-level imagery along a route via an external
// vision oracle and aggregates the results into a per-route risk profile.
package risk

import "errors"

// Scoring errors.
var (
	ErrOracleUnavailable = errors.New("risk oracle unavailable")
)

// Fallback values substituted whenever a single image cannot be scored.
// Degrading to these instead of failing the batch is deliberate: one broken
// image must never sink a whole route analysis.
const (
	FallbackScore       = 50
	FallbackExplanation = "Could not analyze image."
	FallbackPrecaution  = "Drive with caution."
)

// ScoreResult is the assessment of a single image.
type ScoreResult struct {
	// Score is the risk score in [0, 100]; higher is riskier.
	Score int

	// Explanation is a short free-text rationale for the score.
	Explanation string

	// Precaution is the suggested precaution for this segment.
	Precaution string
}

// FallbackResult returns the degrade-not-fail placeholder assessment.
func FallbackResult() ScoreResult {
	return ScoreResult{
		Score:       FallbackScore,
		Explanation: FallbackExplanation,
		Precaution:  FallbackPrecaution,
	}
}

// BatchResult holds index-aligned assessments for a batch of images. All three
// slices have the same length as the scored input.
type BatchResult struct {
	Scores       []int
	Explanations []string
	Precautions  []string
}

// Average returns the unweighted mean of scores rounded to the nearest
// integer, and 0 for an empty set.
func Average(scores []int) int {
	if len(scores) == 0 {
		return 0
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}

	// Round half up on the integer sum, avoiding float drift.
	return (sum + len(scores)/2) / len(scores)
}
