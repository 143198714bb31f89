package weather

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeItems(t *testing.T, raw string) []RawForecastItem {
	t.Helper()
	var items []RawForecastItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestDecodeForecastList(t *testing.T) {
	items := decodeItems(t, `[
		{"dt": 1748822400, "main": {"temp": 285.2, "temp_min": 284.1, "temp_max": 286.9}, "weather": [{"main": "Rain", "description": "light rain"}]},
		{"dt": 1748833200, "main": {"temp": 0, "temp_min": 0, "temp_max": 0}, "weather": [{"description": "clear sky"}, {"description": "ignored"}]}
	]`)

	samples, err := DecodeForecastList(items)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, ForecastSample{
		Timestamp:   time.Unix(1748822400, 0).UTC(),
		Temp:        285.2,
		TempMin:     284.1,
		TempMax:     286.9,
		Description: "light rain",
	}, samples[0])
	// zero Kelvin is present, not missing
	assert.Equal(t, 0.0, samples[1].TempMin)
	assert.Equal(t, "clear sky", samples[1].Description)
}

func TestDecodeForecastListWithoutTemp(t *testing.T) {
	items := decodeItems(t, `[{"dt": 1748822400, "main": {"temp_min": 284, "temp_max": 286}, "weather": [{"description": "rain"}]}]`)

	samples, err := DecodeForecastList(items)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 284.0, samples[0].TempMin)
	assert.Equal(t, 286.0, samples[0].TempMax)
	assert.Zero(t, samples[0].Temp)
}

func TestDecodeForecastListMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		item  string
		field string
	}{
		{"dt", `{"main": {"temp": 1, "temp_min": 1, "temp_max": 1}, "weather": [{"description": "x"}]}`, "missing dt"},
		{"main", `{"dt": 1, "weather": [{"description": "x"}]}`, "missing main"},
		{"temp_min", `{"dt": 1, "main": {"temp": 1, "temp_max": 1}, "weather": [{"description": "x"}]}`, "missing main.temp_min"},
		{"temp_max", `{"dt": 1, "main": {"temp": 1, "temp_min": 1}, "weather": [{"description": "x"}]}`, "missing main.temp_max"},
		{"weather", `{"dt": 1, "main": {"temp": 1, "temp_min": 1, "temp_max": 1}, "weather": []}`, "missing weather"},
		{"description", `{"dt": 1, "main": {"temp": 1, "temp_min": 1, "temp_max": 1}, "weather": [{"main": "Rain"}]}`, "missing weather[0].description"},
		{"blank description", `{"dt": 1, "main": {"temp": 1, "temp_min": 1, "temp_max": 1}, "weather": [{"description": ""}]}`, "missing description"},
	}

	valid := `{"dt": 1748822400, "main": {"temp": 285, "temp_min": 284, "temp_max": 286}, "weather": [{"description": "rain"}]}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := decodeItems(t, "["+valid+","+tt.item+"]")

			samples, err := DecodeForecastList(items)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), "forecast item 1")
			assert.Contains(t, err.Error(), tt.field)
			assert.Nil(t, samples)
		})
	}
}

func TestDecodeThenAggregate(t *testing.T) {
	items := decodeItems(t, `[
		{"dt": 1748822400, "main": {"temp": 290, "temp_min": 280, "temp_max": 290}, "weather": [{"description": "light rain"}]},
		{"dt": 1748833200, "main": {"temp": 290, "temp_min": 278, "temp_max": 295}, "weather": [{"description": "heavy rain"}]}
	]`)

	samples, err := DecodeForecastList(items)
	require.NoError(t, err)

	days, err := AggregateForecastDays(samples, DefaultMaxDays, time.UTC)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "Monday, June 02", days[0].DayLabel)
	assert.Equal(t, "Light rain", days[0].Description)
	assert.InDelta(t, 4.85, days[0].MinTempC, 1e-9)
	assert.InDelta(t, 21.85, days[0].MaxTempC, 1e-9)
}
