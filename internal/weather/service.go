package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates the provider, the forecast aggregation and the store.
type Service struct {
	store        Store
	provider     Provider
	forecastDays int

	// zone decides calendar-day boundaries for the forecast; nil means time.Local.
	zone *time.Location
	now  func() time.Time
}

// NewService creates a new Service. forecastDays outside 1..DefaultMaxDays
// falls back to DefaultMaxDays.
func NewService(store Store, provider Provider, forecastDays int) *Service {
	if forecastDays <= 0 || forecastDays > DefaultMaxDays {
		forecastDays = DefaultMaxDays
	}
	return &Service{
		store:        store,
		provider:     provider,
		forecastDays: forecastDays,
		now:          time.Now,
	}
}

// WithZone makes the service bucket forecast days in zone instead of time.Local.
func (s *Service) WithZone(zone *time.Location) *Service {
	s.zone = zone
	return s
}

// Refresh fetches current conditions and the forecast for loc, aggregates
// the forecast into daily summaries and stores the resulting dashboard.
func (s *Service) Refresh(ctx context.Context, loc Location) (Dashboard, error) {
	if s.provider == nil {
		log.Printf("ERROR: No provider available to fetch weather data for %s", loc.Key())
		return Dashboard{}, fmt.Errorf("no weather provider configured")
	}

	log.Printf("DEBUG: Refresh called for %s using %s", loc.Key(), s.provider.Name())

	current, err := s.provider.FetchCurrent(ctx, loc)
	if err != nil {
		return Dashboard{}, fmt.Errorf("fetch current weather: %w", err)
	}

	samples, err := s.provider.FetchForecast(ctx, current.Lat, current.Lon)
	if err != nil {
		return Dashboard{}, fmt.Errorf("fetch forecast: %w", err)
	}

	days, err := AggregateForecastDays(samples, s.forecastDays, s.zone)
	if err != nil {
		return Dashboard{}, fmt.Errorf("aggregate forecast: %w", err)
	}
	if len(days) == 0 {
		log.Printf("INFO: forecast for %s contained no samples", loc.Key())
	}

	dashboard := Dashboard{
		ID:        uuid.NewString(),
		Location:  loc,
		FetchedAt: s.now().UTC(),
		Current:   current,
		Narrative: Describe(current),
		Forecast:  days,
	}
	s.store.SaveDashboard(loc, dashboard)
	return dashboard, nil
}

// GetForecast returns up to days daily summaries for loc. The latest stored
// dashboard is used when present; otherwise the location is refreshed.
func (s *Service) GetForecast(ctx context.Context, loc Location, days int) ([]DailySummary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be greater than zero", ErrInvalidArgument)
	}

	forecast, err := s.store.GetLatestForecast(loc, days)
	if err == nil {
		return forecast, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	log.Printf("INFO: no stored dashboard for %s; refreshing", loc.Key())
	if _, err := s.Refresh(ctx, loc); err != nil {
		return nil, err
	}
	return s.store.GetLatestForecast(loc, days)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (Dashboard, error) {
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]Dashboard, error) {
	return s.store.GetRange(loc, from, to)
}

// Describe renders a one-sentence summary of the current conditions.
func Describe(c CurrentConditions) string {
	return fmt.Sprintf("The current weather in your city is: %s with a temperature of %.1f °C.",
		c.Description, c.TemperatureC)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNoData)
}
