package openweathermap_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/internal/weather/openweathermap"
)

const currentWeatherBody = `{
	"coord": {"lat": -33.92, "lon": 18.42},
	"weather": [{"id": 500, "main": "Rain", "description": "light rain"}],
	"main": {"temp": 16.5, "humidity": 82},
	"wind": {"speed": 7.2},
	"dt": 1714000000,
	"name": "Cape Town"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *openweathermap.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zerolog.New(io.Discard),
	})
}

func TestClient_GetCurrentWeather(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(currentWeatherBody))
	})

	obs, err := client.GetCurrentWeather(context.Background(), -33.92, 18.42)
	require.NoError(t, err)

	assert.Equal(t, weather.ConditionRain, obs.Condition)
	assert.Equal(t, "light rain", obs.Description)
	assert.InDelta(t, 16.5, obs.Temperature, 0.01)
	assert.InDelta(t, 82.0, obs.Humidity, 0.01)
	assert.InDelta(t, 7.2, obs.WindSpeed, 0.01)
	assert.True(t, obs.ReducesVisibility())
}

func TestClient_GetCurrentWeather_NoConditions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"coord": {"lat": 0, "lon": 0}, "weather": [], "main": {"temp": 20, "humidity": 50}, "wind": {"speed": 1}, "dt": 1714000000}`))
	})

	obs, err := client.GetCurrentWeather(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, weather.ConditionUnknown, obs.Condition)
	assert.False(t, obs.ReducesVisibility())
}

func TestClient_GetCurrentWeather_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetCurrentWeather(context.Background(), 0, 0)
	assert.Error(t, err)
}
