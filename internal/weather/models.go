package weather

import (
	"fmt"
	"strings"
	"time"
)

// Layouts of the provider's local timestamps (timezone=auto, no offset).
const (
	DateLayout = "2006-01-02"
	HourLayout = "2006-01-02T15:04"
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

// ConditionFromCode maps a WMO weather code to a Condition (simplified).
func ConditionFromCode(code int) Condition {
	switch {
	case code == 0:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == 45 || code == 48:
		return ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return ConditionSnow
	case code >= 95:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}

// Location represents a logical place for which we track weather.
type Location struct {
	Name   string  `json:"name,omitempty"`
	Admin1 string  `json:"admin1,omitempty"`
	Lat    float64 `json:"latitude"`
	Lon    float64 `json:"longitude"`
}

// Key returns a canonical string key for indexing this location in stores.
// Coordinates are rounded to ~11m so the same place always maps to one key.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}

// Label is the human readable place name.
func (l Location) Label() string {
	switch {
	case l.Name == "":
		return l.Key()
	case l.Admin1 != "":
		return l.Name + ", " + l.Admin1
	default:
		return l.Name
	}
}

// HourPoint is one hourly forecast observation.
type HourPoint struct {
	Time              string   `json:"time"`
	Temp              float64  `json:"temp"`
	Humidity          float64  `json:"humidity"`
	Precipitation     float64  `json:"precipitation"`
	PrecipitationProb *float64 `json:"precipitation_prob"`
	Wind              float64  `json:"wind"`
	Code              int      `json:"code"`
	ET0               *float64 `json:"et0,omitempty"`
	SRad              *float64 `json:"srad,omitempty"`
}

// Hour returns the local hour of day of the point.
func (h HourPoint) Hour() (int, error) {
	ts, err := time.Parse(HourLayout, h.Time)
	if err != nil {
		return 0, err
	}
	return ts.Hour(), nil
}

// RainChance returns the precipitation probability, 0 when the provider omitted it.
func (h HourPoint) RainChance() float64 {
	if h.PrecipitationProb == nil {
		return 0
	}
	return *h.PrecipitationProb
}

// OnDate reports whether the point falls on the given calendar date.
func (h HourPoint) OnDate(date string) bool {
	return date != "" && strings.HasPrefix(h.Time, date)
}

// DayAggregate is one calendar day's summary.
type DayAggregate struct {
	Date          string    `json:"date"`
	TempMax       float64   `json:"temp_max"`
	TempMin       float64   `json:"temp_min"`
	Precipitation float64   `json:"precipitation"`
	Wind          float64   `json:"wind"`
	Code          int       `json:"code"`
	Condition     Condition `json:"condition"`
}

// Day parses the aggregate's calendar date.
func (d DayAggregate) Day() (time.Time, error) {
	return time.Parse(DateLayout, d.Date)
}

// CurrentWeather is the provider's "now" reading.
type CurrentWeather struct {
	Time          string    `json:"time"`
	Temperature   float64   `json:"temperature"`
	WindSpeed     float64   `json:"windspeed"`
	WindDirection float64   `json:"winddirection"`
	Code          int       `json:"weathercode"`
	Condition     Condition `json:"condition"`
}

// Forecast is the daily part of a provider response.
type Forecast struct {
	Current *CurrentWeather `json:"current,omitempty"`
	Days    []DayAggregate  `json:"days"`
}

// Snapshot is one normalized fetch for a location. Hourly is nil when the hourly
// fetch failed, empty when the provider returned no hours.
type Snapshot struct {
	Location  Location        `json:"location"`
	FetchedAt time.Time       `json:"fetchedAt"` // always UTC
	Current   *CurrentWeather `json:"current,omitempty"`
	Days      []DayAggregate  `json:"days"`
	Hourly    []HourPoint     `json:"hourly"`

	// Seq orders fetches for one location; newer fetches carry higher values.
	Seq uint64 `json:"-"`
}

// HoursForDay returns the hourly points on the given date, at most limit of them
// (limit <= 0 means no limit).
func HoursForDay(hourly []HourPoint, date string, limit int) []HourPoint {
	out := make([]HourPoint, 0)
	for _, h := range hourly {
		if !h.OnDate(date) {
			continue
		}
		out = append(out, h)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Place is a geocoding result.
type Place struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location converts the place to a Location.
func (p Place) Location() Location {
	return Location{Name: p.Name, Admin1: p.Admin1, Lat: p.Latitude, Lon: p.Longitude}
}

// SoilPreview is a midday sample of surface soil conditions.
type SoilPreview struct {
	Date           string   `json:"date"`
	SoilTempC      *float64 `json:"soil_temp_c"`
	SoilMoistureM3 *float64 `json:"soil_moisture_m3m3"`
}
