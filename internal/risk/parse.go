package risk

import (
	"regexp"
	"strconv"
	"strings"
)

// The oracle replies in free text with three labeled lines. Models drift on
// exact formatting (markdown bold, stray dashes, casing), so matching is
// deliberately loose.
var (
	scorePattern       = regexp.MustCompile(`(?i)risk\s*score\s*[:\-]\s*\*{0,2}\s*(\d+)`)
	explanationPattern = regexp.MustCompile(`(?i)explanation\s*[:\-]\s*\*{0,2}\s*(.+)`)
	precautionPattern  = regexp.MustCompile(`(?i)precaution\s*[:\-]\s*\*{0,2}\s*(.+)`)
)

// ParseAssessment extracts a ScoreResult from the oracle's free-text reply.
// Each missing or invalid field independently falls back to its default, and
// the score is clamped to [0, 100].
func ParseAssessment(text string) ScoreResult {
	result := FallbackResult()

	if m := scorePattern.FindStringSubmatch(text); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			result.Score = clampScore(score)
		}
	}

	if m := explanationPattern.FindStringSubmatch(text); m != nil {
		if explanation := cleanField(m[1]); explanation != "" {
			result.Explanation = explanation
		}
	}

	if m := precautionPattern.FindStringSubmatch(text); m != nil {
		if precaution := cleanField(m[1]); precaution != "" {
			result.Precaution = precaution
		}
	}

	return result
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// cleanField trims whitespace and trailing markdown emphasis from a captured
// field value.
func cleanField(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "*"))
}
