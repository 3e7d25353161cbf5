package advisory

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/bharti-kisan/agriguide/internal/weather"
)

// Scoring constants of the irrigation heuristic.
const (
	idealTempC       = 26.0
	calmWindKMH      = 8.0
	maxWindows       = 3
	morningLastHour  = 9
	eveningFirstHour = 17
)

// IrrigationWindow is one scored candidate hour.
type IrrigationWindow struct {
	Time   string `json:"time"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ScoreIrrigation ranks today's hours (the date of days[0]) by how suitable they
// are for irrigating and returns the best three, highest score first. Equal
// scores keep chronological order. An empty result means no recommendation.
func ScoreIrrigation(days []weather.DayAggregate, hourly []weather.HourPoint) []IrrigationWindow {
	windows := make([]IrrigationWindow, 0, maxWindows)
	if len(days) == 0 {
		return windows
	}

	today := weather.HoursForDay(hourly, days[0].Date, 0)
	scored := make([]IrrigationWindow, 0, len(today))
	for _, h := range today {
		scored = append(scored, scoreHour(h))
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > maxWindows {
		scored = scored[:maxWindows]
	}
	return append(windows, scored...)
}

func scoreHour(h weather.HourPoint) IrrigationWindow {
	rainPenalty := h.RainChance() * 0.6
	tempPenalty := math.Abs(h.Temp-idealTempC) * 2
	windPenalty := math.Max(0, h.Wind-calmWindKMH) * 2

	var evapBonus float64
	if h.ET0 != nil {
		evapBonus = math.Max(0, 4-*h.ET0) * 5
	}

	var humidBonus float64
	if h.Humidity >= 60 {
		humidBonus += 6
	}
	if h.Humidity >= 80 {
		humidBonus += 4
	}

	var diurnalBonus float64
	if hour, err := h.Hour(); err == nil && (hour <= morningLastHour || hour >= eveningFirstHour) {
		diurnalBonus = 6
	}

	raw := 100 - rainPenalty - tempPenalty - windPenalty + evapBonus + humidBonus + diurnalBonus
	score := int(math.Max(0, math.Min(100, roundHalfUp(raw))))

	return IrrigationWindow{
		Time:  h.Time,
		Score: score,
		Reason: fmt.Sprintf("Rain %s%% • %d°C • Wind %d km/h",
			strconv.FormatFloat(h.RainChance(), 'f', -1, 64),
			int(roundHalfUp(h.Temp)),
			int(roundHalfUp(h.Wind)),
		),
	}
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
