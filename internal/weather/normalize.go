package weather

import (
	"fmt"
	"time"
)

// RawDaily holds the provider's daily parallel arrays, indexed by day.
type RawDaily struct {
	Time             []string   `json:"time"`
	TempMax          []*float64 `json:"temperature_2m_max"`
	TempMin          []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	WindSpeedMax     []*float64 `json:"windspeed_10m_max"`
	WeatherCode      []*int     `json:"weathercode"`
}

// RawHourly holds the provider's hourly parallel arrays, indexed by hour.
// The last three arrays are optional and may be absent.
type RawHourly struct {
	Time              []string   `json:"time"`
	Temperature       []*float64 `json:"temperature_2m"`
	Humidity          []*float64 `json:"relative_humidity_2m"`
	WeatherCode       []*int     `json:"weathercode"`
	Precipitation     []*float64 `json:"precipitation"`
	WindSpeed         []*float64 `json:"windspeed_10m"`
	PrecipitationProb []*float64 `json:"precipitation_probability"`
	ShortwaveRad      []*float64 `json:"shortwave_radiation"`
	ET0               []*float64 `json:"et0_fao_evapotranspiration"`
}

// DataShapeError reports a provider payload that cannot be normalized.
type DataShapeError struct {
	Field  string
	Index  int // -1 when the whole array is at fault
	Reason string
}

func (e *DataShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed forecast data: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed forecast data: %s[%d]: %s", e.Field, e.Index, e.Reason)
}

type column struct {
	name     string
	length   int
	optional bool
}

// checkColumns verifies every column is aligned with the time axis. Optional
// columns may be absent entirely.
func checkColumns(n int, cols ...column) error {
	for _, c := range cols {
		if c.optional && c.length == 0 {
			continue
		}
		if c.length != n {
			return &DataShapeError{
				Field:  c.name,
				Index:  -1,
				Reason: fmt.Sprintf("length %d does not match time length %d", c.length, n),
			}
		}
	}
	return nil
}

func required[T any](field string, values []*T, i int) (T, error) {
	if values[i] == nil {
		var zero T
		return zero, &DataShapeError{Field: field, Index: i, Reason: "missing value"}
	}
	return *values[i], nil
}

func optional(values []*float64, i int) *float64 {
	if len(values) == 0 || values[i] == nil {
		return nil
	}
	v := *values[i]
	return &v
}

// NormalizeDaily converts the daily arrays into DayAggregates in input order.
func NormalizeDaily(raw RawDaily) ([]DayAggregate, error) {
	n := len(raw.Time)
	if err := checkColumns(n,
		column{name: "temperature_2m_max", length: len(raw.TempMax)},
		column{name: "temperature_2m_min", length: len(raw.TempMin)},
		column{name: "precipitation_sum", length: len(raw.PrecipitationSum)},
		column{name: "windspeed_10m_max", length: len(raw.WindSpeedMax)},
		column{name: "weathercode", length: len(raw.WeatherCode)},
	); err != nil {
		return nil, err
	}

	days := make([]DayAggregate, 0, n)
	for i, date := range raw.Time {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return nil, &DataShapeError{Field: "time", Index: i, Reason: fmt.Sprintf("invalid date %q", date)}
		}

		var (
			d   = DayAggregate{Date: date}
			err error
		)
		if d.TempMax, err = required("temperature_2m_max", raw.TempMax, i); err != nil {
			return nil, err
		}
		if d.TempMin, err = required("temperature_2m_min", raw.TempMin, i); err != nil {
			return nil, err
		}
		if d.Precipitation, err = required("precipitation_sum", raw.PrecipitationSum, i); err != nil {
			return nil, err
		}
		if d.Wind, err = required("windspeed_10m_max", raw.WindSpeedMax, i); err != nil {
			return nil, err
		}
		if d.Code, err = required("weathercode", raw.WeatherCode, i); err != nil {
			return nil, err
		}
		d.Condition = ConditionFromCode(d.Code)

		days = append(days, d)
	}

	return days, nil
}

// NormalizeHourly converts the hourly arrays into HourPoints in input order.
// Missing optional values are left nil.
func NormalizeHourly(raw RawHourly) ([]HourPoint, error) {
	n := len(raw.Time)
	if err := checkColumns(n,
		column{name: "temperature_2m", length: len(raw.Temperature)},
		column{name: "relative_humidity_2m", length: len(raw.Humidity)},
		column{name: "weathercode", length: len(raw.WeatherCode)},
		column{name: "precipitation", length: len(raw.Precipitation)},
		column{name: "windspeed_10m", length: len(raw.WindSpeed)},
		column{name: "precipitation_probability", length: len(raw.PrecipitationProb), optional: true},
		column{name: "shortwave_radiation", length: len(raw.ShortwaveRad), optional: true},
		column{name: "et0_fao_evapotranspiration", length: len(raw.ET0), optional: true},
	); err != nil {
		return nil, err
	}

	points := make([]HourPoint, 0, n)
	for i, ts := range raw.Time {
		if _, err := time.Parse(HourLayout, ts); err != nil {
			return nil, &DataShapeError{Field: "time", Index: i, Reason: fmt.Sprintf("invalid timestamp %q", ts)}
		}

		var (
			h   = HourPoint{Time: ts}
			err error
		)
		if h.Temp, err = required("temperature_2m", raw.Temperature, i); err != nil {
			return nil, err
		}
		if h.Humidity, err = required("relative_humidity_2m", raw.Humidity, i); err != nil {
			return nil, err
		}
		if h.Code, err = required("weathercode", raw.WeatherCode, i); err != nil {
			return nil, err
		}
		if h.Precipitation, err = required("precipitation", raw.Precipitation, i); err != nil {
			return nil, err
		}
		if h.Wind, err = required("windspeed_10m", raw.WindSpeed, i); err != nil {
			return nil, err
		}
		h.PrecipitationProb = optional(raw.PrecipitationProb, i)
		h.SRad = optional(raw.ShortwaveRad, i)
		h.ET0 = optional(raw.ET0, i)

		points = append(points, h)
	}

	return points, nil
}
