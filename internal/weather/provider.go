package weather

import (
	"context"
	"time"
)

// Provider abstracts a weather data source that serves both current
// conditions and the 3-hour forecast feed (e.g. OpenWeatherMap).
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, loc Location) (CurrentConditions, error)
	FetchForecast(ctx context.Context, lat, lon float64) ([]ForecastSample, error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveDashboard(loc Location, dashboard Dashboard)
	GetLatest(loc Location) (Dashboard, error)
	GetLatestForecast(loc Location, days int) ([]DailySummary, error)
	GetRange(loc Location, from, to time.Time) ([]Dashboard, error)
}
