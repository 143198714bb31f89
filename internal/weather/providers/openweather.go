package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
// Temperatures are requested in the default unit (Kelvin).
type OpenWeatherProvider struct {
	name            string
	apiKey          string
	baseURL         string
	httpCfg         HTTPClientConfig
	currentCircuit  *gobreaker.CircuitBreaker
	forecastCircuit *gobreaker.CircuitBreaker
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		currentCircuit:  newCircuitBreaker("openweather-current"),
		forecastCircuit: newCircuitBreaker("openweather-forecast"),
	}
}

// WithBaseURL points the provider at another API root, e.g. a test server.
func (p *OpenWeatherProvider) WithBaseURL(base string) *OpenWeatherProvider {
	p.baseURL = strings.TrimRight(base, "/")
	return p
}

// WithBackoff overrides the retry policy.
func (p *OpenWeatherProvider) WithBackoff(b BackoffConfig) *OpenWeatherProvider {
	p.httpCfg.Backoff = b
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchCurrent calls the "weather" endpoint for loc.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentConditions, error) {
	if p.apiKey == "" {
		return weather.CurrentConditions{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("q", loc.Query())

	var payload struct {
		Dt    int64 `json:"dt"`
		Coord *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main *struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := p.getJSON(ctx, p.currentCircuit, "/weather", values, &payload); err != nil {
		return weather.CurrentConditions{}, err
	}
	if payload.Main == nil || payload.Coord == nil {
		return weather.CurrentConditions{}, fmt.Errorf("%w: current weather has no main or coord block", weather.ErrUnexpectedResponse)
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	var group, description string
	if len(payload.Weather) > 0 {
		group = payload.Weather[0].Main
		description = payload.Weather[0].Description
	}

	return weather.CurrentConditions{
		Location:     loc,
		Timestamp:    ts,
		TemperatureC: weather.KelvinToCelsius(payload.Main.Temp),
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		PressureHpa:  payload.Main.Pressure,
		Description:  description,
		Condition:    mapOpenWeatherCondition(group),
		Lat:          payload.Coord.Lat,
		Lon:          payload.Coord.Lon,
	}, nil
}

// FetchForecast calls the 5-day/3-hour "forecast" endpoint for the given
// coordinates and returns the samples in feed order.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var payload struct {
		List *[]weather.RawForecastItem `json:"list"`
	}
	if err := p.getJSON(ctx, p.forecastCircuit, "/forecast", values, &payload); err != nil {
		return nil, err
	}
	if payload.List == nil {
		return nil, fmt.Errorf("%w: forecast response has no list", weather.ErrInvalidInput)
	}

	return weather.DecodeForecastList(*payload.List)
}

func (p *OpenWeatherProvider) getJSON(ctx context.Context, cb *gobreaker.CircuitBreaker, path string, values url.Values, out any) error {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, cb, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrInvalidInput, err)
	}
	return nil
}

func mapOpenWeatherCondition(main string) weather.Condition {
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke", "Dust":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
