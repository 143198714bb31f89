// Package chart renders the daily forecast as a PNG line chart.
package chart

import (
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrNotEnoughPoints is returned when there are fewer than two days to plot.
var ErrNotEnoughPoints = errors.New("at least two days are required to draw a chart")

// Series is the x/y data behind the chart, also served as JSON.
type Series struct {
	Labels []string  `json:"labels"`
	Min    []float64 `json:"minTempC"`
	Max    []float64 `json:"maxTempC"`
}

// NewSeries extracts chart series from the daily summaries.
func NewSeries(days []weather.DailySummary) Series {
	s := Series{
		Labels: make([]string, 0, len(days)),
		Min:    make([]float64, 0, len(days)),
		Max:    make([]float64, 0, len(days)),
	}
	for _, d := range days {
		s.Labels = append(s.Labels, d.DayLabel)
		s.Min = append(s.Min, d.MinTempC)
		s.Max = append(s.Max, d.MaxTempC)
	}
	return s
}

// RenderDailyTemperatures writes a PNG with min and max temperature lines.
func RenderDailyTemperatures(w io.Writer, title string, days []weather.DailySummary) error {
	if len(days) < 2 {
		return ErrNotEnoughPoints
	}

	var (
		x    = make([]float64, 0, len(days))
		ymin = make([]float64, 0, len(days))
		ymax = make([]float64, 0, len(days))
	)
	for _, d := range days {
		x = append(x, gochart.TimeToFloat64(d.Date))
		ymin = append(ymin, d.MinTempC)
		ymax = append(ymax, d.MaxTempC)
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           "Day",
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name: "Temperature (°C)",
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Min",
				XValues: x,
				YValues: ymin,
				Style: gochart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 2,
				},
			},
			gochart.ContinuousSeries{
				Name:    "Max",
				XValues: x,
				YValues: ymax,
				Style: gochart.Style{
					StrokeColor: drawing.ColorFromHex("d62728"),
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
