// Package advisory turns normalized forecasts into irrigation advice and
// weather alerts. Everything except Service is a pure function of its inputs.
package advisory

import "github.com/bharti-kisan/agriguide/internal/weather"

// Report is the advice derived from one forecast and one set of thresholds.
type Report struct {
	Irrigation []IrrigationWindow `json:"irrigation"`
	Alerts     []AlertItem        `json:"alerts"`
	BestHour   string             `json:"bestHour,omitempty"`
}

// Evaluate scores irrigation windows and derives alerts.
func Evaluate(days []weather.DayAggregate, hourly []weather.HourPoint, t AlertThresholds) Report {
	r := Report{
		Irrigation: ScoreIrrigation(days, hourly),
		Alerts:     DeriveAlerts(days, hourly, t),
	}
	if len(r.Irrigation) > 0 {
		r.BestHour = r.Irrigation[0].Time
	}
	return r
}
