package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saferoute/saferoute/internal/risk"
)

func TestParseAssessment_WellFormed(t *testing.T) {
	text := "Risk Score: 72\nExplanation: Narrow lanes with poor visibility.\nPrecaution: Reduce speed near the junction."

	got := risk.ParseAssessment(text)
	assert.Equal(t, 72, got.Score)
	assert.Equal(t, "Narrow lanes with poor visibility.", got.Explanation)
	assert.Equal(t, "Reduce speed near the junction.", got.Precaution)
}

func TestParseAssessment_TolerantFormatting(t *testing.T) {
	tests := []struct {
		name string
		text string
		want risk.ScoreResult
	}{
		{
			name: "markdown bold labels",
			text: "**Risk Score:** 35\n**Explanation:** Clear road.\n**Precaution:** None needed.",
			want: risk.ScoreResult{Score: 35, Explanation: "Clear road.", Precaution: "None needed."},
		},
		{
			name: "lower case and dashes",
			text: "risk score - 18\nexplanation - wide boulevard\nprecaution - stay alert",
			want: risk.ScoreResult{Score: 18, Explanation: "wide boulevard", Precaution: "stay alert"},
		},
		{
			name: "extra prose around the labels",
			text: "Here is my assessment.\nRisk Score: 64\nExplanation: Busy market street.\nPrecaution: Watch for pedestrians.\nLet me know if you need more.",
			want: risk.ScoreResult{Score: 64, Explanation: "Busy market street.", Precaution: "Watch for pedestrians."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, risk.ParseAssessment(tt.text))
		})
	}
}

func TestParseAssessment_MissingFieldsDefault(t *testing.T) {
	t.Run("all missing", func(t *testing.T) {
		got := risk.ParseAssessment("I cannot help with that.")
		assert.Equal(t, risk.FallbackResult(), got)
	})

	t.Run("score only", func(t *testing.T) {
		got := risk.ParseAssessment("Risk Score: 90")
		assert.Equal(t, 90, got.Score)
		assert.Equal(t, risk.FallbackExplanation, got.Explanation)
		assert.Equal(t, risk.FallbackPrecaution, got.Precaution)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Equal(t, risk.FallbackResult(), risk.ParseAssessment(""))
	})
}

func TestParseAssessment_ClampsScore(t *testing.T) {
	got := risk.ParseAssessment("Risk Score: 250\nExplanation: x\nPrecaution: y")
	assert.Equal(t, 100, got.Score)
}
