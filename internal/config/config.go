package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string `validate:"required"`

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// FetchInterval controls how often the scheduler refreshes each location.
	FetchInterval time.Duration `validate:"gte=1m"`

	// ForecastDays caps the number of daily summaries per dashboard.
	ForecastDays int `validate:"min=1,max=7"`

	// Locations to track.
	Locations []weather.Location `validate:"dive"`

	// In-memory store retention.
	StoreMaxHistory int           // max number of dashboards per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of dashboards (0 = unlimited)

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	env := envReader(getenv)
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = getenv("OPENWEATHER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = env.getDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = env.getDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.ForecastDays = env.getInt("FORECAST_DAYS", weather.DefaultMaxDays)

	// Store retention.
	cfg.StoreMaxHistory = env.getInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = env.getDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	cfg.Port = env.get("PORT", "8080")

	locs, err := parseLocations(env.get("WEATHER_LOCATION_CITY", "London"), getenv("WEATHER_LOCATION_COUNTRY"))
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseLocations pairs comma-separated cities with countries. Countries may
// be omitted entirely; otherwise both lists must have the same length.
func parseLocations(city, country string) ([]weather.Location, error) {
	cities := splitList(city)
	if len(cities) == 0 {
		return nil, fmt.Errorf("WEATHER_LOCATION_CITY must name at least one city")
	}
	countries := splitList(country)
	if len(countries) > 0 && len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}

	locs := make([]weather.Location, 0, len(cities))
	for i := range cities {
		loc := weather.Location{City: cities[i]}
		if len(countries) > 0 {
			loc.Country = countries[i]
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type envReader func(string) string

func (e envReader) get(key, def string) string {
	if v := e(key); v != "" {
		return v
	}
	return def
}

func (e envReader) getInt(key string, def int) int {
	if v := e(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func (e envReader) getDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(e.get(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
