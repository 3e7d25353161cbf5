package advisory

import (
	"fmt"
	"time"

	"github.com/bharti-kisan/agriguide/internal/weather"
)

// Severity grades an alert.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityWarn   Severity = "warn"
	SeverityDanger Severity = "danger"
)

// Alert identifiers.
const (
	AlertHeavyRain = "heavy-rain"
	AlertHighWind  = "high-wind"
	AlertHeatwave  = "heatwave"
	AlertCold      = "cold"
	AlertPestRisk  = "pest-risk"
)

// pestWindowHours is how many upcoming hours the pest rule inspects.
const pestWindowHours = 12

// AlertItem is one derived warning.
type AlertItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Severity Severity `json:"severity"`
}

type dayRule struct {
	id       string
	title    string
	severity Severity
	match    func(d weather.DayAggregate, t AlertThresholds) bool
	detail   func(d weather.DayAggregate) string
}

// dayRules are evaluated in this order.
var dayRules = []dayRule{
	{
		id:       AlertHeavyRain,
		title:    "Heavy rain likely",
		severity: SeverityDanger,
		match:    func(d weather.DayAggregate, t AlertThresholds) bool { return d.Precipitation >= t.RainMM },
		detail:   func(d weather.DayAggregate) string { return fmt.Sprintf("%d mm", int(roundHalfUp(d.Precipitation))) },
	},
	{
		id:       AlertHighWind,
		title:    "High wind: avoid spraying",
		severity: SeverityWarn,
		match:    func(d weather.DayAggregate, t AlertThresholds) bool { return d.Wind >= t.WindKMH },
		detail:   func(d weather.DayAggregate) string { return fmt.Sprintf("%d km/h", int(roundHalfUp(d.Wind))) },
	},
	{
		id:       AlertHeatwave,
		title:    "Heat stress risk",
		severity: SeverityWarn,
		match:    func(d weather.DayAggregate, t AlertThresholds) bool { return d.TempMax >= t.HeatC },
		detail:   func(d weather.DayAggregate) string { return fmt.Sprintf("%d°C", int(roundHalfUp(d.TempMax))) },
	},
	{
		id:       AlertCold,
		title:    "Cold stress risk",
		severity: SeverityInfo,
		match:    func(d weather.DayAggregate, t AlertThresholds) bool { return d.TempMin <= t.ColdC },
		detail:   func(d weather.DayAggregate) string { return fmt.Sprintf("%d°C", int(roundHalfUp(d.TempMin))) },
	},
}

// DeriveAlerts evaluates the alert rules against today and tomorrow and the
// next twelve hours. Each rule fires at most once, using the first matching day.
func DeriveAlerts(days []weather.DayAggregate, hourly []weather.HourPoint, t AlertThresholds) []AlertItem {
	alerts := make([]AlertItem, 0)
	if len(days) == 0 && len(hourly) == 0 {
		return alerts
	}

	upcoming := days
	if len(upcoming) > 2 {
		upcoming = upcoming[:2]
	}

	for _, rule := range dayRules {
		for _, d := range upcoming {
			if !rule.match(d, t) {
				continue
			}
			alerts = append(alerts, AlertItem{
				ID:       rule.id,
				Title:    rule.title,
				Detail:   dayLabel(d) + ": " + rule.detail(d),
				Severity: rule.severity,
			})
			break
		}
	}

	if h, ok := pestRiskHour(hourly); ok {
		alerts = append(alerts, AlertItem{
			ID:       AlertPestRisk,
			Title:    "Pest/disease risk ↑",
			Detail:   fmt.Sprintf("%s: humidity %d%%", hourLabel(h), int(roundHalfUp(h.Humidity))),
			Severity: SeverityInfo,
		})
	}

	return alerts
}

// pestRiskHour finds the first warm, humid, wet hour among the next twelve.
func pestRiskHour(hourly []weather.HourPoint) (weather.HourPoint, bool) {
	if len(hourly) > pestWindowHours {
		hourly = hourly[:pestWindowHours]
	}
	for _, h := range hourly {
		if h.Humidity >= 85 && h.Temp >= 20 && h.Temp <= 28 &&
			(h.Precipitation >= 1 || h.RainChance() >= 50) {
			return h, true
		}
	}
	return weather.HourPoint{}, false
}

func dayLabel(d weather.DayAggregate) string {
	ts, err := d.Day()
	if err != nil {
		return d.Date
	}
	return ts.Format("Mon Jan 02 2006")
}

func hourLabel(h weather.HourPoint) string {
	ts, err := time.Parse(weather.HourLayout, h.Time)
	if err != nil {
		return h.Time
	}
	return ts.Format("3 PM")
}
