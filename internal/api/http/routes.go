package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bharti-kisan/agriguide/internal/advisory"
	"github.com/bharti-kisan/agriguide/internal/assistant"
	"github.com/bharti-kisan/agriguide/internal/market"
	"github.com/bharti-kisan/agriguide/internal/reminders"
	"github.com/bharti-kisan/agriguide/internal/schemes"
	"github.com/bharti-kisan/agriguide/internal/store"
	"github.com/bharti-kisan/agriguide/internal/weather"
)

var validate = validator.New()

// hourlyTabSize is how many hours the day view shows.
const hourlyTabSize = 12

// PriceFetcher fetches market prices.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, q market.PriceQuery) ([]market.PriceRow, error)
}

// Services are the handlers' dependencies.
type Services struct {
	Weather   *weather.Service
	Advisory  *advisory.Service
	Assistant *assistant.Service
	Prices    PriceFetcher
	Reminders *store.ReminderStore
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, s Services) {
	v1 := app.Group("/api/v1")

	v1.Get("/places", func(c *fiber.Ctx) error {
		var q placeQuery
		q.Query = c.Query("q")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		places, err := s.Weather.Search(c.UserContext(), q.Query)
		if err != nil {
			return upstreamError(c, err, "place search failed")
		}
		return c.JSON(fiber.Map{"results": places})
	})

	v1.Get("/places/reverse", func(c *fiber.Ctx) error {
		q, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		place, err := s.Weather.Reverse(c.UserContext(), *q.Lat, *q.Lon)
		if err != nil {
			return upstreamError(c, err, "could not fetch place name for your location")
		}
		return c.JSON(place)
	})

	v1.Get("/weather/outlook", func(c *fiber.Ctx) error {
		q, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		units, err := weather.ParseUnits(c.Query("units"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		profile := c.Query("profile", advisory.DefaultProfile)
		if err := validateProfile(profile); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		outlook, err := s.Advisory.Outlook(c.UserContext(), q.location(c), profile, units)
		if err != nil {
			return upstreamError(c, err, "could not load forecast")
		}
		return c.JSON(outlook)
	})

	v1.Get("/weather/hourly", func(c *fiber.Ctx) error {
		q, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		units, err := weather.ParseUnits(c.Query("units"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var idx int
		switch day := c.Query("day", "today"); day {
		case "today":
		case "tomorrow":
			idx = 1
		default:
			return fiber.NewError(fiber.StatusBadRequest, "day must be today or tomorrow")
		}

		snap, err := s.Weather.Fetch(c.UserContext(), q.location(c))
		if err != nil {
			return upstreamError(c, err, "could not load forecast")
		}
		snap = snap.InUnits(units)

		hours := []weather.HourPoint{}
		date := ""
		if idx < len(snap.Days) {
			date = snap.Days[idx].Date
			hours = weather.HoursForDay(snap.Hourly, date, hourlyTabSize)
		}
		return c.JSON(fiber.Map{
			"date":            date,
			"hourly":          hours,
			"hourlyAvailable": snap.Hourly != nil,
			"units":           units,
		})
	})

	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		q, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := s.Weather.GetLatest(q.location(c))
		if err != nil {
			return storeError(err, "no weather data for requested location", "failed to fetch weather data")
		}
		return c.JSON(snapshot)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.Coords.location(c)
		snapshots, err := s.Weather.GetRange(loc, req.From, req.To)
		if err != nil {
			return storeError(err, "no weather history for requested range", "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"location":  loc,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	// Registered before /thresholds/:profile so "presets" is not read as a profile.
	v1.Get("/thresholds/presets", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"presets": advisory.Presets()})
	})

	v1.Get("/thresholds/:profile", func(c *fiber.Ctx) error {
		profile := c.Params("profile")
		if err := validateProfile(profile); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		t, err := s.Advisory.Thresholds(profile)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load thresholds")
		}
		return c.JSON(fiber.Map{"profile": profile, "thresholds": t})
	})

	v1.Put("/thresholds/:profile", func(c *fiber.Ctx) error {
		profile := c.Params("profile")
		if err := validateProfile(profile); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var body thresholdsBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid thresholds body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		t := body.thresholds()
		if err := s.Advisory.UpdateThresholds(profile, t); err != nil {
			var verr validator.ValidationErrors
			if errors.As(err, &verr) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save thresholds")
		}
		return c.JSON(fiber.Map{"profile": profile, "thresholds": t})
	})

	v1.Post("/thresholds/:profile/preset", func(c *fiber.Ctx) error {
		profile := c.Params("profile")
		if err := validateProfile(profile); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var body presetBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid preset body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		t, err := s.Advisory.ApplyPreset(profile, body.Preset)
		if err != nil {
			if errors.Is(err, advisory.ErrUnknownPreset) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save thresholds")
		}
		return c.JSON(fiber.Map{"profile": profile, "preset": body.Preset, "thresholds": t})
	})

	v1.Post("/ai", func(c *fiber.Ctx) error {
		var q assistant.Query
		if err := c.BodyParser(&q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid query body")
		}
		if err := q.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ans, err := s.Assistant.Ask(c.UserContext(), q)
		if err != nil {
			return upstreamError(c, err, "ai request failed")
		}
		return c.JSON(ans)
	})

	v1.Get("/ai/history", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil || limit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a non-negative integer")
		}
		return c.JSON(fiber.Map{"history": s.Assistant.History(limit)})
	})

	v1.Delete("/ai/history", func(c *fiber.Ctx) error {
		s.Assistant.ClearHistory()
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/prices", func(c *fiber.Ctx) error {
		q, err := parsePriceQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := s.Prices.FetchPrices(c.UserContext(), q)
		if err != nil {
			return upstreamError(c, err, "failed to fetch market prices")
		}
		series := market.Series(rows)
		trend := market.SeriesTrend(series)
		return c.JSON(fiber.Map{
			"records": rows,
			"series":  series,
			"latest":  trend.Latest,
			"change7": trend.Change7,
		})
	})

	v1.Get("/soil", func(c *fiber.Ctx) error {
		q, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		soil, err := s.Weather.Soil(c.UserContext(), q.location(c))
		if err != nil {
			return upstreamError(c, err, "failed to fetch soil data")
		}
		return c.JSON(fiber.Map{"days": soil})
	})

	v1.Get("/reminders", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"reminders": s.Reminders.List()})
	})

	v1.Post("/reminders", func(c *fiber.Ctx) error {
		var d reminders.Draft
		if err := c.BodyParser(&d); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid reminder body")
		}

		r, err := s.Reminders.Add(d)
		if err != nil {
			return reminderError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	})

	v1.Patch("/reminders/:id", func(c *fiber.Ctx) error {
		var p reminders.Patch
		if err := c.BodyParser(&p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid reminder body")
		}

		r, err := s.Reminders.Update(c.Params("id"), p)
		if err != nil {
			return reminderError(err)
		}
		return c.JSON(r)
	})

	v1.Post("/reminders/:id/toggle", func(c *fiber.Ctx) error {
		r, err := s.Reminders.ToggleDone(c.Params("id"))
		if err != nil {
			return reminderError(err)
		}
		return c.JSON(r)
	})

	v1.Delete("/reminders/:id", func(c *fiber.Ctx) error {
		if err := s.Reminders.Delete(c.Params("id")); err != nil {
			return reminderError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Delete("/reminders", func(c *fiber.Ctx) error {
		s.Reminders.Clear()
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/schemes", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"schemes": schemes.All()})
	})
}
