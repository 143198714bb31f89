package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// DefaultMaxDays is the day cap used by AggregateForecast.
const DefaultMaxDays = 7

// DayLabelLayout renders a day as e.g. "Monday, June 02".
const DayLabelLayout = "Monday, January 02"

const kelvinOffset = 273.15

// KelvinToCelsius converts a Kelvin temperature to Celsius without rounding.
func KelvinToCelsius(k float64) float64 {
	return k - kelvinOffset
}

// AggregateForecast buckets samples into at most DefaultMaxDays daily
// summaries using the process local time zone.
func AggregateForecast(samples []ForecastSample) ([]DailySummary, error) {
	return AggregateForecastDays(samples, DefaultMaxDays, time.Local)
}

// AggregateForecastDays buckets samples by calendar day in loc (time.Local
// when nil). Days are emitted in the order their first sample appears. Once
// maxDays days are open, samples for new days are ignored, but samples for
// open days keep refining min/max until the end of the input.
func AggregateForecastDays(samples []ForecastSample, maxDays int, loc *time.Location) ([]DailySummary, error) {
	if maxDays <= 0 {
		return nil, fmt.Errorf("%w: max days must be greater than zero, got %d", ErrInvalidArgument, maxDays)
	}
	if loc == nil {
		loc = time.Local
	}

	buckets := newDayBuckets(maxDays)
	for i, s := range samples {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("forecast sample %d: %w", i, err)
		}
		buckets.add(s.Timestamp.In(loc), s)
	}

	return buckets.summaries(), nil
}

type dayKey string

// dayBuckets is an insertion-ordered map from calendar day to accumulator.
type dayBuckets struct {
	limit int
	index map[dayKey]*DailySummary
	order []dayKey
}

func newDayBuckets(limit int) *dayBuckets {
	return &dayBuckets{
		limit: limit,
		index: make(map[dayKey]*DailySummary, limit),
		order: make([]dayKey, 0, limit),
	}
}

func (b *dayBuckets) add(local time.Time, s ForecastSample) {
	k := dayKey(local.Format("2006-01-02"))
	minC := KelvinToCelsius(s.TempMin)
	maxC := KelvinToCelsius(s.TempMax)

	if day, ok := b.index[k]; ok {
		day.MinTempC = min(day.MinTempC, minC)
		day.MaxTempC = max(day.MaxTempC, maxC)
		return
	}
	if len(b.order) >= b.limit {
		return
	}

	b.index[k] = &DailySummary{
		DayLabel:    local.Format(DayLabelLayout),
		Date:        time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location()),
		MinTempC:    minC,
		MaxTempC:    maxC,
		Description: common.Capitalize(s.Description),
	}
	b.order = append(b.order, k)
}

func (b *dayBuckets) summaries() []DailySummary {
	out := make([]DailySummary, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, *b.index[k])
	}
	return out
}
