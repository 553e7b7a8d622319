package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-prediction/internal/prediction"
	"github.com/i474232898/weather-prediction/internal/store"
	"github.com/i474232898/weather-prediction/internal/weather"
)

var validate = validator.New()

// Defaults holds horizons used when a request omits `days`.
type Defaults struct {
	PredictionDays     int
	PredictionLineDays int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, defaults Defaults) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"default": weather.DefaultCity(),
			"cities":  weather.Cities,
		})
	})

	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		loc, err := resolveLocation(c, service)
		if err != nil {
			return err
		}

		ds, err := service.GetLatest(loc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(ds)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := resolveLocation(c, service)
		if err != nil {
			return err
		}
		datasets, err := service.GetRange(loc, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"location": loc,
			"from":     req.From,
			"to":       req.To,
			"datasets": datasets,
		})
	})

	v1.Get("/predictions", func(c *fiber.Ctx) error {
		days, err := parseDays(c, defaults.PredictionDays, "required,gte=1,lte=7")
		if err != nil {
			return err
		}
		loc, err := resolveLocation(c, service)
		if err != nil {
			return err
		}

		report, err := service.Predict(c.UserContext(), loc, days, defaults.PredictionLineDays)
		if err != nil {
			return predictionError(err)
		}
		return c.JSON(report)
	})

	v1.Get("/predictions/line", func(c *fiber.Ctx) error {
		days, err := parseDays(c, defaults.PredictionLineDays, "required,gte=1,lte=14")
		if err != nil {
			return err
		}
		loc, err := resolveLocation(c, service)
		if err != nil {
			return err
		}

		line, err := service.PredictionLine(c.UserContext(), loc, days)
		if err != nil {
			return predictionError(err)
		}
		return c.JSON(fiber.Map{
			"location":       loc,
			"available":      len(line) > 0,
			"predictionLine": line,
		})
	})
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	City    string `validate:"required"`
	Country string `validate:"omitempty,alpha,len=2"`
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

func resolveLocation(c *fiber.Ctx, service *weather.Service) (weather.Location, error) {
	q, err := parseLocationQuery(c)
	if err != nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	loc, err := service.Resolve(c.UserContext(), q.City, q.Country)
	if err != nil {
		if errors.Is(err, weather.ErrUnknownLocation) {
			return weather.Location{}, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return weather.Location{}, fiber.NewError(fiber.StatusInternalServerError, "failed to resolve location")
	}
	return loc, nil
}

// parseDays reads the optional `days` query parameter and checks it against rule.
func parseDays(c *fiber.Ctx, def int, rule string) (int, error) {
	days := def
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fiber.NewError(fiber.StatusBadRequest, "days must be an integer")
		}
		days = n
	}
	if err := validate.Var(days, rule); err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "days out of range: "+err.Error())
	}
	return days, nil
}

func predictionError(err error) error {
	switch {
	case errors.Is(err, prediction.ErrInvalidHorizon):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrNoData), errors.Is(err, weather.ErrNoProviders):
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather data is currently unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build prediction")
	}
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
