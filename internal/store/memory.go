package store

import (
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = weather.ErrNoData
)

var _ weather.Store = (*MemoryStore)(nil)

// DashboardHistory holds a time-ordered list of dashboards for a location.
type DashboardHistory struct {
	Dashboards []weather.Dashboard
}

// MemoryStore is a concurrency-safe in-memory implementation of a dashboard store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*DashboardHistory

	// retention configuration
	maxHistory int           // max number of dashboards per location
	maxAge     time.Duration // optional max age for dashboards

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*DashboardHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveDashboard appends a new dashboard for a location and enforces retention.
func (s *MemoryStore) SaveDashboard(loc weather.Location, dashboard weather.Dashboard) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &DashboardHistory{}
		s.data[key] = history
	}

	history.Dashboards = append(history.Dashboards, dashboard)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Dashboards) > s.maxHistory {
		over := len(history.Dashboards) - s.maxHistory
		history.Dashboards = history.Dashboards[over:]
	}

	// Enforce retention by age. The newest dashboard is always kept.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Dashboards)-1; i++ {
			if !history.Dashboards[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		history.Dashboards = history.Dashboards[i:]
	}
}

// GetLatest returns the most recent dashboard for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Dashboard, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Dashboards) == 0 {
		return weather.Dashboard{}, ErrNotFound
	}
	return history.Dashboards[len(history.Dashboards)-1], nil
}

// GetLatestForecast returns the daily summaries of the most recent dashboard
// for a location, truncated to at most days entries. A non-positive days
// returns the whole forecast.
func (s *MemoryStore) GetLatestForecast(loc weather.Location, days int) ([]weather.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.Dashboards) == 0 {
		return nil, ErrNotFound
	}

	forecast := history.Dashboards[len(history.Dashboards)-1].Forecast
	if days > 0 && len(forecast) > days {
		forecast = forecast[:days]
	}
	out := make([]weather.DailySummary, len(forecast))
	copy(out, forecast)
	return out, nil
}

// GetRange returns all dashboards for a location fetched between from and to (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.Dashboard, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Dashboards) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Dashboard
	for _, d := range history.Dashboards {
		if !d.FetchedAt.Before(from) && !d.FetchedAt.After(to) {
			result = append(result, d)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
