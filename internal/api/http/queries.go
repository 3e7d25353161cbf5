package httpapi

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bharti-kisan/agriguide/internal/advisory"
	"github.com/bharti-kisan/agriguide/internal/market"
	"github.com/bharti-kisan/agriguide/internal/weather"
)

// coordsQuery holds query parameters for identifying a location.
type coordsQuery struct {
	Lat *float64 `validate:"required,gte=-90,lte=90"`
	Lon *float64 `validate:"required,gte=-180,lte=180"`
}

func (q coordsQuery) location(c *fiber.Ctx) weather.Location {
	return weather.Location{
		Name:   c.Query("name"),
		Admin1: c.Query("admin1"),
		Lat:    *q.Lat,
		Lon:    *q.Lon,
	}
}

func parseCoordsQuery(c *fiber.Ctx) (coordsQuery, error) {
	var q coordsQuery

	for _, p := range []struct {
		key string
		dst **float64
	}{{"lat", &q.Lat}, {"lon", &q.Lon}} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("invalid %s: %q", p.key, raw)
		}
		*p.dst = &v
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// placeQuery holds the place search term.
type placeQuery struct {
	Query string `validate:"required,min=2,max=100"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Coords coordsQuery
	From   time.Time `validate:"required"`
	To     time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	coords, err := parseCoordsQuery(c)
	if err != nil {
		return err
	}
	h.Coords = coords

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

// profilePattern limits profile identifiers to URL- and file-safe names.
var profilePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func validateProfile(profile string) error {
	if !profilePattern.MatchString(profile) {
		return fmt.Errorf("invalid profile %q", profile)
	}
	return nil
}

// thresholdsBody requires all four fields so an update never half-applies.
type thresholdsBody struct {
	RainMM  *float64 `json:"rainMM" validate:"required"`
	WindKMH *float64 `json:"windKMH" validate:"required"`
	HeatC   *float64 `json:"heatC" validate:"required"`
	ColdC   *float64 `json:"coldC" validate:"required"`
}

func (b thresholdsBody) thresholds() advisory.AlertThresholds {
	return advisory.AlertThresholds{
		RainMM:  *b.RainMM,
		WindKMH: *b.WindKMH,
		HeatC:   *b.HeatC,
		ColdC:   *b.ColdC,
	}
}

type presetBody struct {
	Preset string `json:"preset" validate:"required"`
}

func parsePriceQuery(c *fiber.Ctx) (market.PriceQuery, error) {
	q := market.PriceQuery{
		Commodity: c.Query("commodity"),
		State:     c.Query("state"),
		District:  c.Query("district"),
		Market:    c.Query("market"),
		Variety:   c.Query("variety"),
		Grade:     c.Query("grade"),
		From:      c.Query("from"),
		To:        c.Query("to"),
	}

	var err error
	if raw := c.Query("limit"); raw != "" {
		if q.Limit, err = strconv.Atoi(raw); err != nil {
			return q, fmt.Errorf("invalid limit: %q", raw)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if q.Offset, err = strconv.Atoi(raw); err != nil {
			return q, fmt.Errorf("invalid offset: %q", raw)
		}
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}
