package weather

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RawForecastItem mirrors one element of the OpenWeatherMap 5-day/3-hour
// forecast "list". Fields are pointers so that absent keys can be told apart
// from zero values.
type RawForecastItem struct {
	Dt      *int64         `json:"dt"`
	Main    *RawMain       `json:"main"`
	Weather []RawCondition `json:"weather"`
}

// RawMain is the "main" block of a forecast item. Temperatures are Kelvin.
type RawMain struct {
	Temp    *float64 `json:"temp"`
	TempMin *float64 `json:"temp_min"`
	TempMax *float64 `json:"temp_max"`
}

// RawCondition is one entry of a forecast item's "weather" array.
type RawCondition struct {
	Main        *string `json:"main"`
	Description *string `json:"description"`
}

// Sample converts the raw item into a ForecastSample.
func (r RawForecastItem) Sample() (ForecastSample, error) {
	switch {
	case r.Dt == nil:
		return ForecastSample{}, missingField("dt")
	case r.Main == nil:
		return ForecastSample{}, missingField("main")
	case r.Main.TempMin == nil:
		return ForecastSample{}, missingField("main.temp_min")
	case r.Main.TempMax == nil:
		return ForecastSample{}, missingField("main.temp_max")
	case len(r.Weather) == 0:
		return ForecastSample{}, missingField("weather")
	case r.Weather[0].Description == nil:
		return ForecastSample{}, missingField("weather[0].description")
	}

	s := ForecastSample{
		Timestamp:   time.Unix(*r.Dt, 0).UTC(),
		TempMin:     *r.Main.TempMin,
		TempMax:     *r.Main.TempMax,
		Description: *r.Weather[0].Description,
	}
	// main.temp is informational only; the daily range comes from temp_min/temp_max.
	if r.Main.Temp != nil {
		s.Temp = *r.Main.Temp
	}
	if err := s.validate(); err != nil {
		return ForecastSample{}, err
	}
	return s, nil
}

// DecodeForecastList converts a forecast "list" into samples, preserving order.
// The first malformed item aborts the conversion; no partial result is returned.
func DecodeForecastList(items []RawForecastItem) ([]ForecastSample, error) {
	samples := make([]ForecastSample, 0, len(items))
	for i, item := range items {
		s, err := item.Sample()
		if err != nil {
			return nil, fmt.Errorf("forecast item %d: %w", i, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func (s ForecastSample) validate() error {
	if s.Timestamp.IsZero() {
		return missingField("timestamp")
	}
	temps := []struct {
		name string
		v    float64
	}{{"temp", s.Temp}, {"temp_min", s.TempMin}, {"temp_max", s.TempMax}}
	for _, t := range temps {
		if math.IsNaN(t.v) || math.IsInf(t.v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, t.name)
		}
	}
	if strings.TrimSpace(s.Description) == "" {
		return missingField("description")
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: missing %s", ErrInvalidInput, name)
}
