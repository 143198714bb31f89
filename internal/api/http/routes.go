package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	msgNoForecast   = "No forecast data available"
	msgUnexpected   = "Unexpected response from weather provider"
	requestDeadline = 20 * time.Second
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		locReq, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := locReq.toLocation()
		dashboard, err := service.GetLatest(loc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(fiber.Map{
			"location":  loc,
			"fetchedAt": dashboard.FetchedAt,
			"current":   dashboard.Current,
			"metrics":   newMetrics(dashboard.Current),
			"narrative": dashboard.Narrative,
		})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.Location.toLocation()
		ctx, cancel := context.WithTimeout(c.UserContext(), requestDeadline)
		defer cancel()

		days, err := service.GetForecast(ctx, loc, req.Days)
		if err != nil {
			return providerError(loc, err)
		}
		if len(days) == 0 {
			return fiber.NewError(fiber.StatusNotFound, msgNoForecast)
		}

		return c.JSON(fiber.Map{
			"location": loc,
			"days":     days,
		})
	})

	v1.Get("/weather/forecast/chart.png", func(c *fiber.Ctx) error {
		locReq, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := locReq.toLocation()
		ctx, cancel := context.WithTimeout(c.UserContext(), requestDeadline)
		defer cancel()

		days, err := service.GetForecast(ctx, loc, weather.DefaultMaxDays)
		if err != nil {
			return providerError(loc, err)
		}

		var buf bytes.Buffer
		if err := chart.RenderDailyTemperatures(&buf, "Weekly forecast for "+loc.City, days); err != nil {
			if errors.Is(err, chart.ErrNotEnoughPoints) {
				return fiber.NewError(fiber.StatusNotFound, msgNoForecast)
			}
			log.Printf("ERROR: chart rendering failed for %s: %v", loc.Key(), err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render forecast chart")
		}

		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(buf.Bytes())
	})

	v1.Get("/weather/dashboard", func(c *fiber.Ctx) error {
		locReq, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := locReq.toLocation()
		ctx, cancel := context.WithTimeout(c.UserContext(), requestDeadline)
		defer cancel()

		dashboard, err := service.Refresh(ctx, loc)
		if err != nil {
			return providerError(loc, err)
		}

		resp := fiber.Map{
			"id":        dashboard.ID,
			"location":  loc,
			"fetchedAt": dashboard.FetchedAt,
			"current":   dashboard.Current,
			"metrics":   newMetrics(dashboard.Current),
			"narrative": dashboard.Narrative,
			"forecast":  dashboard.Forecast,
			"chart":     chart.NewSeries(dashboard.Forecast),
		}
		if len(dashboard.Forecast) == 0 {
			resp["message"] = msgNoForecast
		}
		return c.JSON(resp)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.Location.toLocation()
		dashboards, err := service.GetRange(loc, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"location":   loc,
			"from":       req.From,
			"to":         req.To,
			"dashboards": dashboards,
		})
	})
}

// providerError maps service failures to targeted HTTP errors.
func providerError(loc weather.Location, err error) error {
	switch {
	case errors.Is(err, weather.ErrInvalidInput):
		log.Printf("ERROR: malformed forecast data for %s: %v", loc.Key(), err)
		return fiber.NewError(fiber.StatusNotFound, msgNoForecast)
	case errors.Is(err, weather.ErrUnexpectedResponse):
		log.Printf("ERROR: unexpected current weather payload for %s: %v", loc.Key(), err)
		return fiber.NewError(fiber.StatusBadGateway, msgUnexpected)
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "City not found")
	case errors.Is(err, weather.ErrUnauthorized):
		log.Printf("ERROR: weather provider rejected api key: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "Invalid OpenWeather API key")
	case errors.Is(err, weather.ErrInvalidArgument):
		log.Printf("ERROR: invalid argument for %s: %v", loc.Key(), err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	default:
		log.Printf("ERROR: weather fetch failed for %s: %v", loc.Key(), err)
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	}
}

// metric is a display-ready label/value pair.
type metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func newMetrics(c weather.CurrentConditions) []metric {
	return []metric{
		{Label: "Temperature", Value: fmt.Sprintf("%.2f °C", c.TemperatureC)},
		{Label: "Humidity", Value: fmt.Sprintf("%g%%", c.HumidityPct)},
		{Label: "Wind Speed", Value: fmt.Sprintf("%g m/s", c.WindSpeedMS)},
		{Label: "Pressure", Value: fmt.Sprintf("%g hPa", c.PressureHpa)},
	}
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	City    string `validate:"required"`
	Country string `validate:"omitempty,len=2,alpha"`
}

func (l locationQuery) toLocation() weather.Location {
	return weather.Location{
		City:    l.City,
		Country: l.Country,
	}
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	q.City = c.Query("city")
	q.Country = c.Query("country")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Location locationQuery
	Days     int `validate:"required,min=1,max=7"`
}

func (f *forecastQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	f.Location = loc

	daysStr := c.Query("days")
	if daysStr == "" {
		return errors.New("days query parameter is required")
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil {
		return errors.New("days must be an integer")
	}
	f.Days = days
	return nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location locationQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
