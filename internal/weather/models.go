// Package weather provides current conditions along a route, used as
// context when assessing street imagery.
package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Observation represents current weather at a location.
type Observation struct {
	// Location coordinates
	Lat float64
	Lng float64

	// Condition is the general weather condition.
	Condition   Condition
	Description string

	// Temperature in Celsius
	Temperature float64

	// Humidity percentage (0-100)
	Humidity float64

	// WindSpeed in m/s
	WindSpeed float64

	// Timestamps
	ObservedAt time.Time
	FetchedAt  time.Time
}

// Condition represents the general weather condition.
type Condition string

const (
	ConditionClear        Condition = "CLEAR"
	ConditionClouds       Condition = "CLOUDS"
	ConditionRain         Condition = "RAIN"
	ConditionDrizzle      Condition = "DRIZZLE"
	ConditionThunderstorm Condition = "THUNDERSTORM"
	ConditionSnow         Condition = "SNOW"
	ConditionMist         Condition = "MIST"
	ConditionFog          Condition = "FOG"
	ConditionHaze         Condition = "HAZE"
	ConditionUnknown      Condition = "UNKNOWN"
)

// Describe renders the observation as a short plain-language sentence
// suitable as context for image assessment.
func (o *Observation) Describe() string {
	condition := o.Description
	if condition == "" {
		condition = strings.ToLower(string(o.Condition))
	}
	return fmt.Sprintf("Current weather: %s, %.0f°C, humidity %.0f%%, wind %.1f m/s.",
		condition, o.Temperature, o.Humidity, o.WindSpeed)
}

// ReducesVisibility reports whether the condition impairs visibility,
// which raises baseline driving risk.
func (o *Observation) ReducesVisibility() bool {
	switch o.Condition {
	case ConditionRain, ConditionDrizzle, ConditionThunderstorm,
		ConditionSnow, ConditionMist, ConditionFog, ConditionHaze:
		return true
	default:
		return false
	}
}

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrentWeather fetches current weather for a location.
	GetCurrentWeather(ctx context.Context, lat, lng float64) (*Observation, error)

	// Name returns the provider name for logging.
	Name() string
}
