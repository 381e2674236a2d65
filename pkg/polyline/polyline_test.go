package polyline

import (
	"math"
	"testing"
)

func TestDecode_KnownStrings(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected []Point
	}{
		{
			name:     "single point",
			encoded:  "_p~iF~ps|U",
			expected: []Point{{Lat: 38.5, Lng: -120.2}},
		},
		{
			name:    "two points",
			encoded: "_p~iF~ps|U_ulLnnqC",
			expected: []Point{
				{Lat: 38.5, Lng: -120.2},
				{Lat: 40.7, Lng: -120.95},
			},
		},
		{
			name:    "three points - reference example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: []Point{
				{Lat: 38.5, Lng: -120.2},
				{Lat: 40.7, Lng: -120.95},
				{Lat: 43.252, Lng: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Decode(tt.encoded)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d points, got %d", len(tt.expected), len(result))
			}
			for i, p := range result {
				if !pointsEqual(p, tt.expected[i], 0.00001) {
					t.Errorf("point %d: expected %+v, got %+v", i, tt.expected[i], p)
				}
			}
		})
	}
}

func TestDecode_EmptyString(t *testing.T) {
	if got := Decode(""); got != nil {
		t.Errorf("expected nil for empty string, got %v", got)
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("expected empty string for nil points, got %q", got)
	}
	if got := Encode([]Point{}); got != "" {
		t.Errorf("expected empty string for empty points, got %q", got)
	}
}

func TestEncode_MatchesReferenceExample(t *testing.T) {
	points := []Point{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}
	const want = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	if got := Encode(points); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{
			name:   "single point",
			points: []Point{{Lat: 38.5, Lng: -120.2}},
		},
		{
			name: "dense urban segment",
			points: []Point{
				{Lat: 12.97163, Lng: 77.59456},
				{Lat: 12.97201, Lng: 77.59512},
				{Lat: 12.97288, Lng: 77.59601},
			},
		},
		{
			name: "crosses equator and prime meridian",
			points: []Point{
				{Lat: 0.5, Lng: -0.5},
				{Lat: -0.5, Lng: 0.5},
				{Lat: -1.25, Lng: -1.25},
			},
		},
		{
			name: "negative deltas",
			points: []Point{
				{Lat: 52.3676, Lng: 4.9041},
				{Lat: 52.0907, Lng: 5.1214},
				{Lat: 51.9225, Lng: 4.47917},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := Decode(Encode(tt.points))
			if len(decoded) != len(tt.points) {
				t.Fatalf("round-trip: expected %d points, got %d", len(tt.points), len(decoded))
			}
			for i, p := range decoded {
				if !pointsEqual(p, tt.points[i], 0.00001) {
					t.Errorf("round-trip point %d: expected %+v, got %+v", i, tt.points[i], p)
				}
			}
		})
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		name           string
		points         []Point
		expectedMeters float64
		tolerance      float64
	}{
		{name: "empty", points: nil},
		{name: "single point", points: []Point{{Lat: 52.0, Lng: 4.0}}},
		{
			name: "one degree latitude - roughly 111km",
			points: []Point{
				{Lat: 0.0, Lng: 0.0},
				{Lat: 1.0, Lng: 0.0},
			},
			expectedMeters: 111000,
			tolerance:      1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Length(tt.points)
			if math.Abs(got-tt.expectedMeters) > tt.tolerance {
				t.Errorf("expected ~%.0fm (±%.0f), got %.0fm", tt.expectedMeters, tt.tolerance, got)
			}
		})
	}
}

func TestSampleEvery(t *testing.T) {
	points := []Point{
		{Lat: 52.0, Lng: 4.0},
		{Lat: 52.01, Lng: 4.0},
		{Lat: 52.02, Lng: 4.0},
		{Lat: 52.03, Lng: 4.0},
	}

	t.Run("interval shorter than route", func(t *testing.T) {
		sampled := SampleEvery(points, 500)
		if len(sampled) < 5 {
			t.Errorf("expected at least 5 samples, got %d", len(sampled))
		}
		if !pointsEqual(sampled[0], points[0], 0.0001) {
			t.Error("first sample should be the first point")
		}
		if !pointsEqual(sampled[len(sampled)-1], points[len(points)-1], 0.0001) {
			t.Error("last sample should be the last point")
		}
	})

	t.Run("interval exceeds route length", func(t *testing.T) {
		sampled := SampleEvery(points, 10000)
		if len(sampled) != 2 {
			t.Errorf("expected start and end only, got %d samples", len(sampled))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := SampleEvery(nil, 500); got != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("zero interval returns all", func(t *testing.T) {
		if got := SampleEvery(points, 0); len(got) != len(points) {
			t.Errorf("expected all points for zero interval, got %d", len(got))
		}
	})
}

func TestBearingDegrees(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Point
		expected  float64
		tolerance float64
	}{
		{name: "due north", a: Point{Lat: 0, Lng: 0}, b: Point{Lat: 1, Lng: 0}, expected: 0, tolerance: 0.01},
		{name: "due east", a: Point{Lat: 0, Lng: 0}, b: Point{Lat: 0, Lng: 1}, expected: 90, tolerance: 0.01},
		{name: "due south", a: Point{Lat: 1, Lng: 0}, b: Point{Lat: 0, Lng: 0}, expected: 180, tolerance: 0.01},
		{name: "due west", a: Point{Lat: 0, Lng: 1}, b: Point{Lat: 0, Lng: 0}, expected: 270, tolerance: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingDegrees(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("expected %.1f°, got %.2f°", tt.expected, got)
			}
		})
	}
}

func pointsEqual(a, b Point, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lng-b.Lng) <= tolerance
}

func BenchmarkDecode(b *testing.B) {
	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Decode(encoded)
	}
}

func BenchmarkEncode(b *testing.B) {
	points := []Point{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Encode(points)
	}
}
