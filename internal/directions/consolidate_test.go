package directions

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/saferoute/saferoute/pkg/polyline"
)

func walkStep(meters, seconds int, line string) RawStep {
	return RawStep{
		TravelMode:     ModeWalking,
		DistanceMeters: meters,
		Duration:       Duration{Seconds: seconds},
		Polyline:       line,
	}
}

func busStep(name string) RawStep {
	return RawStep{
		TravelMode:     ModeTransit,
		DistanceMeters: 4200,
		Duration:       Duration{Seconds: 600, Text: "10 mins"},
		Polyline:       "encBus",
		Transit: &TransitDetails{
			Line: TransitLine{
				ShortName: name,
				Name:      name + " Express",
				Agency:    "City Transport",
				Vehicle:   "BUS",
			},
			Headsign:      "Downtown",
			NumStops:      7,
			DepartureStop: &Stop{Name: "Market Square", Location: &polyline.Point{Lat: 12.97, Lng: 77.59}},
			ArrivalStop:   &Stop{Name: "Central Station"},
		},
	}
}

func TestConsolidateSteps_MergesConsecutiveWalks(t *testing.T) {
	legs := []RawLeg{{
		Steps: []RawStep{
			walkStep(100, 60, "encA"),
			walkStep(50, 30, "encB"),
			busStep("42X"),
			walkStep(80, 40, "encC"),
		},
	}}

	steps := ConsolidateSteps(legs)

	if len(steps) != 3 {
		t.Fatalf("expected 3 consolidated steps, got %d", len(steps))
	}

	first := steps[0]
	if first.Kind != StepWalk || first.DurationSeconds != 90 {
		t.Errorf("first step: expected 90s walk, got %+v", first)
	}
	if first.DistanceText != "150 m" {
		t.Errorf("first step distance: expected %q, got %q", "150 m", first.DistanceText)
	}
	if first.Polyline != "encA|encB" {
		t.Errorf("first step polyline: expected %q, got %q", "encA|encB", first.Polyline)
	}

	if steps[1].Kind != StepTransit || steps[1].Transit.Line != "42X" {
		t.Errorf("second step: expected 42X transit, got %+v", steps[1])
	}

	last := steps[2]
	if last.Kind != StepWalk || last.DurationSeconds != 40 || last.DistanceText != "80 m" {
		t.Errorf("last step: expected 80m/40s walk, got %+v", last)
	}
}

func TestConsolidateSteps_TransitDisplayFields(t *testing.T) {
	steps := ConsolidateSteps([]RawLeg{{Steps: []RawStep{busStep("42X")}}})

	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}

	want := NormalizedStep{
		Kind:            StepTransit,
		Mode:            "bus",
		DurationSeconds: 600,
		DurationText:    "10 mins",
		DistanceText:    "4.2 km",
		Polyline:        "encBus",
		Transit: &TransitInfo{
			Line:              "42X",
			Headsign:          "Downtown",
			Agency:            "City Transport",
			Color:             "#1A73E8",
			TextColor:         "#FFFFFF",
			DepartureStop:     "Market Square",
			ArrivalStop:       "Central Station",
			DepartureLocation: &polyline.Point{Lat: 12.97, Lng: 77.59},
			NumStops:          7,
		},
	}

	if diff := cmp.Diff(want, steps[0]); diff != "" {
		t.Errorf("transit step mismatch (-want +got):\n%s", diff)
	}
}

func TestConsolidateSteps_TransitFallbacks(t *testing.T) {
	t.Run("missing stops get placeholders", func(t *testing.T) {
		step := RawStep{
			TravelMode: ModeTransit,
			Duration:   Duration{Seconds: 300},
			Transit: &TransitDetails{
				Line: TransitLine{Name: "Blue Line"},
			},
		}

		steps := ConsolidateSteps([]RawLeg{{Steps: []RawStep{step}}})
		info := steps[0].Transit

		if info.DepartureStop != "Departure Stop" || info.ArrivalStop != "Arrival Stop" {
			t.Errorf("expected stop placeholders, got %q / %q", info.DepartureStop, info.ArrivalStop)
		}
		if info.Line != "Blue Line" {
			t.Errorf("expected full line name fallback, got %q", info.Line)
		}
		if steps[0].Mode != "transit" {
			t.Errorf("expected mode %q without vehicle type, got %q", "transit", steps[0].Mode)
		}
	})

	t.Run("single named stop still uses placeholders", func(t *testing.T) {
		step := RawStep{
			TravelMode: ModeTransit,
			Duration:   Duration{Seconds: 300},
			Transit: &TransitDetails{
				DepartureStop: &Stop{Name: "Only One End"},
			},
		}

		steps := ConsolidateSteps([]RawLeg{{Steps: []RawStep{step}}})
		info := steps[0].Transit

		if info.DepartureStop != "Departure Stop" {
			t.Errorf("expected placeholder, got %q", info.DepartureStop)
		}
	})

	t.Run("no metadata at all", func(t *testing.T) {
		step := RawStep{TravelMode: ModeTransit, Duration: Duration{Seconds: 120}}
		steps := ConsolidateSteps([]RawLeg{{Steps: []RawStep{step}}})

		info := steps[0].Transit
		if info == nil {
			t.Fatal("expected transit info")
		}
		if info.Color != "#1A73E8" || info.TextColor != "#FFFFFF" {
			t.Errorf("expected default colors, got %q / %q", info.Color, info.TextColor)
		}
	})
}

func TestConsolidateSteps_OtherModesPassThrough(t *testing.T) {
	legs := []RawLeg{{
		Steps: []RawStep{
			walkStep(100, 60, "encA"),
			{TravelMode: ModeDriving, DistanceMeters: 9000, Duration: Duration{Seconds: 1200}, Polyline: "encD"},
		},
	}}

	steps := ConsolidateSteps(legs)

	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Kind != StepWalk {
		t.Errorf("expected flushed walk first, got %+v", steps[0])
	}
	if steps[1].Kind != StepOther || steps[1].Mode != ModeDriving {
		t.Errorf("expected pass-through driving step, got %+v", steps[1])
	}
}

func TestConsolidateSteps_WalkAccumulatorSpansLegs(t *testing.T) {
	legs := []RawLeg{
		{Steps: []RawStep{walkStep(100, 60, "encA")}},
		{Steps: []RawStep{walkStep(200, 120, "encB")}},
	}

	steps := ConsolidateSteps(legs)

	if len(steps) != 1 {
		t.Fatalf("expected a single merged walk, got %d steps", len(steps))
	}
	if steps[0].DurationSeconds != 180 || steps[0].DistanceText != "300 m" {
		t.Errorf("unexpected merged walk: %+v", steps[0])
	}
}

func TestConsolidateSteps_NeverMoreStepsThanInput(t *testing.T) {
	legs := []RawLeg{{
		Steps: []RawStep{
			busStep("1"), busStep("2"), walkStep(10, 5, ""), busStep("3"), walkStep(10, 5, ""),
		},
	}}

	steps := ConsolidateSteps(legs)
	if len(steps) > 5 {
		t.Errorf("consolidation grew the step list: %d > 5", len(steps))
	}

	// Transit steps are never merged with each other.
	transit := 0
	for _, s := range steps {
		if s.Kind == StepTransit {
			transit++
		}
	}
	if transit != 3 {
		t.Errorf("expected 3 transit steps, got %d", transit)
	}
}

func TestConsolidateSteps_Empty(t *testing.T) {
	if got := ConsolidateSteps(nil); len(got) != 0 {
		t.Errorf("expected no steps for empty input, got %d", len(got))
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "1 min"},
		{45, "1 min"},
		{90, "2 min"},
		{600, "10 min"},
		{3600, "1 hr"},
		{3900, "1 hr 5 min"},
		{7200, "2 hr"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters int
		want   string
	}{
		{0, "0 m"},
		{850, "850 m"},
		{1000, "1.0 km"},
		{1234, "1.2 km"},
		{9949, "9.9 km"},
		{9950, "10.0 km"},
		{12500, "12.5 km"},
		{15000, "15 km"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.want {
			t.Errorf("FormatDistance(%d) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}
