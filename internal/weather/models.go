package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location represents a logical place for which we show weather.
// City must be provided; Country is optional.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}

// Query returns the "city[,country]" form accepted by OpenWeatherMap.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// CurrentConditions is the normalized current-weather view for a location.
type CurrentConditions struct {
	Location     Location  `json:"location"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPercent"`
	WindSpeedMS  float64   `json:"windSpeed"`
	PressureHpa  float64   `json:"pressureHpa"`
	Description  string    `json:"description"`
	Condition    Condition `json:"condition"`

	// Coordinates reported by the provider, used for the forecast lookup.
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ForecastSample is one 3-hour step of the upstream forecast feed.
// Temperatures are in Kelvin.
type ForecastSample struct {
	Timestamp   time.Time
	Temp        float64
	TempMin     float64
	TempMax     float64
	Description string
}

// DailySummary aggregates all samples that fall on one local calendar day.
type DailySummary struct {
	DayLabel    string    `json:"day"`
	Date        time.Time `json:"date"`
	MinTempC    float64   `json:"minTempC"`
	MaxTempC    float64   `json:"maxTempC"`
	Description string    `json:"description"`
}

// Dashboard is one refresh of the current conditions plus the daily forecast.
type Dashboard struct {
	ID        string            `json:"id"`
	Location  Location          `json:"location"`
	FetchedAt time.Time         `json:"fetchedAt"` // always UTC
	Current   CurrentConditions `json:"current"`
	Narrative string            `json:"narrative"`
	Forecast  []DailySummary    `json:"forecast"`
}
