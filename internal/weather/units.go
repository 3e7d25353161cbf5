package weather

import "fmt"

// Units selects the display unit system.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ParseUnits accepts "", "metric" or "imperial".
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case "", UnitsMetric:
		return UnitsMetric, nil
	case UnitsImperial:
		return UnitsImperial, nil
	default:
		return "", fmt.Errorf("unknown units %q", s)
	}
}

func toFahrenheit(c float64) float64 { return c*9/5 + 32 }

func toMPH(kmh float64) float64 { return kmh * 0.621371 }

// InUnits returns a copy of the snapshot with temperatures and wind speeds
// converted for display. Precipitation stays in millimetres.
func (s Snapshot) InUnits(u Units) Snapshot {
	if u != UnitsImperial {
		return s
	}

	out := s
	if s.Current != nil {
		cur := *s.Current
		cur.Temperature = toFahrenheit(cur.Temperature)
		cur.WindSpeed = toMPH(cur.WindSpeed)
		out.Current = &cur
	}

	out.Days = make([]DayAggregate, len(s.Days))
	for i, d := range s.Days {
		d.TempMax = toFahrenheit(d.TempMax)
		d.TempMin = toFahrenheit(d.TempMin)
		d.Wind = toMPH(d.Wind)
		out.Days[i] = d
	}

	if s.Hourly != nil {
		out.Hourly = make([]HourPoint, len(s.Hourly))
		for i, h := range s.Hourly {
			h.Temp = toFahrenheit(h.Temp)
			h.Wind = toMPH(h.Wind)
			out.Hourly[i] = h
		}
	}
	return out
}
