package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const currentBody = `{
  "coord": {"lon": -0.1257, "lat": 51.5085},
  "weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
  "main": {"temp": 288.15, "feels_like": 287.5, "pressure": 1012, "humidity": 81},
  "wind": {"speed": 4.1, "deg": 240},
  "dt": 1748865600,
  "name": "London",
  "cod": 200
}`

const forecastBody = `{
  "cod": "200",
  "cnt": 2,
  "list": [
    {"dt": 1748865600, "main": {"temp": 288.0, "temp_min": 285.0, "temp_max": 289.0}, "weather": [{"main": "Rain", "description": "light rain"}]},
    {"dt": 1748876400, "main": {"temp": 290.0, "temp_min": 287.0, "temp_max": 291.5}, "weather": [{"main": "Clouds", "description": "overcast clouds"}]}
  ]
}`

func newTestProvider(t *testing.T, h http.HandlerFunc) *OpenWeatherProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewOpenWeatherProvider(srv.Client(), "test-key").
		WithBaseURL(srv.URL).
		WithBackoff(BackoffConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond})
}

func TestFetchCurrent(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "London,GB", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Empty(t, r.URL.Query().Get("units"))
		_, _ = w.Write([]byte(currentBody))
	})

	cur, err := p.FetchCurrent(context.Background(), weather.Location{City: "London", Country: "GB"})
	require.NoError(t, err)

	assert.InDelta(t, 15.0, cur.TemperatureC, 1e-9)
	assert.Equal(t, 81.0, cur.HumidityPct)
	assert.Equal(t, 1012.0, cur.PressureHpa)
	assert.Equal(t, 4.1, cur.WindSpeedMS)
	assert.Equal(t, "light rain", cur.Description)
	assert.Equal(t, weather.ConditionRain, cur.Condition)
	assert.Equal(t, 51.5085, cur.Lat)
	assert.Equal(t, -0.1257, cur.Lon)
	assert.Equal(t, time.Unix(1748865600, 0).UTC(), cur.Timestamp)
}

func TestFetchCurrentErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."}`, weather.ErrUnauthorized},
		{"city not found", http.StatusNotFound, `{"cod":"404","message":"city not found"}`, weather.ErrLocationNotFound},
		{"missing main", http.StatusOK, `{"coord":{"lat":1,"lon":2},"weather":[]}`, weather.ErrUnexpectedResponse},
		{"missing coord", http.StatusOK, `{"main":{"temp":280},"weather":[]}`, weather.ErrUnexpectedResponse},
		{"not json", http.StatusOK, `<html>`, weather.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.FetchCurrent(context.Background(), weather.Location{City: "Atlantis"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "request should not be retried")
		})
	}
}

func TestFetchCurrentMissingKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")

	_, err := p.FetchCurrent(context.Background(), weather.Location{City: "London"})
	assert.Error(t, err)
}

func TestFetchForecast(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "51.5085", r.URL.Query().Get("lat"))
		assert.Equal(t, "-0.1257", r.URL.Query().Get("lon"))
		_, _ = w.Write([]byte(forecastBody))
	})

	samples, err := p.FetchForecast(context.Background(), 51.5085, -0.1257)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, time.Unix(1748865600, 0).UTC(), samples[0].Timestamp)
	assert.Equal(t, 285.0, samples[0].TempMin)
	assert.Equal(t, 291.5, samples[1].TempMax)
	assert.Equal(t, "overcast clouds", samples[1].Description)
}

func TestFetchForecastMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no list", `{"cod":"200","cnt":0}`},
		{"missing description", `{"list":[{"dt":1748865600,"main":{"temp":288,"temp_min":285,"temp_max":289},"weather":[{"main":"Rain"}]}]}`},
		{"missing temp_max", `{"list":[{"dt":1748865600,"main":{"temp":288,"temp_min":285},"weather":[{"description":"rain"}]}]}`},
		{"wrong type", `{"list":[{"dt":"yesterday","main":{"temp":288,"temp_min":285,"temp_max":289},"weather":[{"description":"rain"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			samples, err := p.FetchForecast(context.Background(), 1, 2)
			assert.ErrorIs(t, err, weather.ErrInvalidInput)
			assert.Nil(t, samples)
		})
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(forecastBody))
	})

	samples, err := p.FetchForecast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, samples, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetriesExhausted(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.FetchForecast(context.Background(), 1, 2)
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestMapOpenWeatherCondition(t *testing.T) {
	tests := map[string]weather.Condition{
		"Clear":        weather.ConditionClear,
		"Clouds":       weather.ConditionCloudy,
		"Drizzle":      weather.ConditionRain,
		"Snow":         weather.ConditionSnow,
		"Thunderstorm": weather.ConditionStorm,
		"Fog":          weather.ConditionMist,
		"Tornado":      weather.ConditionUnknown,
		"":             weather.ConditionUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, mapOpenWeatherCondition(in), in)
	}
}
