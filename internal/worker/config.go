// Package worker provides background job processing for SafeRoute.
package worker

import (
	"sort"
	"time"
)

// Corridor is a popular origin-destination pair whose caches are kept warm
// so the first interactive request after a cold start is already served
// from cache.
type Corridor struct {
	// Name is the human-readable name of the corridor.
	Name string

	// Origin and Destination are the corridor endpoints.
	Origin      Point
	Destination Point

	// Mode is the travel mode to warm (default: DRIVING).
	Mode string

	// Priority determines warm order (lower = higher priority).
	Priority int
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// WarmConfig holds configuration for the cache warm job.
type WarmConfig struct {
	// Corridors are the origin-destination pairs to warm.
	// If empty, uses DefaultWarmCorridors.
	Corridors []Corridor

	// Concurrency is the number of concurrent warm operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for warming a single corridor.
	// Default: 30 seconds
	Timeout time.Duration

	// WarmRoutes enables directions cache warming.
	// Default: true
	WarmRoutes bool

	// WarmWeather enables weather cache warming at corridor endpoints.
	// Default: true
	WarmWeather bool
}

// DefaultWarmConfig returns the default warm configuration.
func DefaultWarmConfig() WarmConfig {
	return WarmConfig{
		Corridors:   DefaultWarmCorridors(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
		WarmRoutes:  true,
		WarmWeather: true,
	}
}

// DefaultWarmCorridors returns the default corridors for the Bay Area.
// Focuses on the commuter pairs that dominate route requests.
func DefaultWarmCorridors() []Corridor {
	return []Corridor{
		{
			Name:        "SF-San Jose",
			Priority:    1,
			Origin:      Point{Lat: 37.7749, Lng: -122.4194}, // San Francisco
			Destination: Point{Lat: 37.3382, Lng: -121.8863}, // San Jose
			Mode:        "DRIVING",
		},
		{
			Name:        "SF-Oakland",
			Priority:    1,
			Origin:      Point{Lat: 37.7749, Lng: -122.4194}, // San Francisco
			Destination: Point{Lat: 37.8044, Lng: -122.2712}, // Oakland
			Mode:        "DRIVING",
		},
		{
			Name:        "SF-Berkeley",
			Priority:    2,
			Origin:      Point{Lat: 37.7749, Lng: -122.4194}, // San Francisco
			Destination: Point{Lat: 37.8715, Lng: -122.2730}, // Berkeley
			Mode:        "TRANSIT",
		},
		{
			Name:        "Palo Alto-Mountain View",
			Priority:    2,
			Origin:      Point{Lat: 37.4419, Lng: -122.1430}, // Palo Alto
			Destination: Point{Lat: 37.3861, Lng: -122.0839}, // Mountain View
			Mode:        "DRIVING",
		},
		{
			Name:        "SF-SFO",
			Priority:    2,
			Origin:      Point{Lat: 37.7749, Lng: -122.4194}, // San Francisco
			Destination: Point{Lat: 37.6213, Lng: -122.3790}, // SFO Airport
			Mode:        "DRIVING",
		},
		{
			Name:        "Fremont-San Jose",
			Priority:    3,
			Origin:      Point{Lat: 37.5485, Lng: -121.9886}, // Fremont
			Destination: Point{Lat: 37.3382, Lng: -121.8863}, // San Jose
			Mode:        "DRIVING",
		},
		{
			Name:        "Walnut Creek-Oakland",
			Priority:    3,
			Origin:      Point{Lat: 37.9101, Lng: -122.0652}, // Walnut Creek
			Destination: Point{Lat: 37.8044, Lng: -122.2712}, // Oakland
			Mode:        "TRANSIT",
		},
	}
}

// OrderedCorridors returns the corridors sorted by ascending priority.
func (c WarmConfig) OrderedCorridors() []Corridor {
	ordered := make([]Corridor, len(c.Corridors))
	copy(ordered, c.Corridors)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}

// TotalCorridors returns the number of corridors to warm.
func (c WarmConfig) TotalCorridors() int {
	return len(c.Corridors)
}
