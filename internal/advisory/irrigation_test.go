package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharti-kisan/agriguide/internal/weather"
)

func fp(v float64) *float64 { return &v }

func TestScoreHour(t *testing.T) {
	tests := []struct {
		name   string
		hour   weather.HourPoint
		score  int
		reason string
	}{
		{
			name:   "ideal early morning clamps to 100",
			hour:   weather.HourPoint{Time: "2024-01-01T06:00", Temp: 26, Wind: 8, Humidity: 85},
			score:  100,
			reason: "Rain 0% • 26°C • Wind 8 km/h",
		},
		{
			name:   "hot windy midday",
			hour:   weather.HourPoint{Time: "2024-01-01T12:00", Temp: 30, Wind: 12, Humidity: 50, PrecipitationProb: fp(50)},
			score:  54,
			reason: "Rain 50% • 30°C • Wind 12 km/h",
		},
		{
			name: "evapotranspiration and humidity bonuses",
			hour: weather.HourPoint{
				Time: "2024-01-01T14:00", Temp: 20, Wind: 10, Humidity: 65,
				PrecipitationProb: fp(40), ET0: fp(1),
			},
			score:  81,
			reason: "Rain 40% • 20°C • Wind 10 km/h",
		},
		{
			name:   "zero evapotranspiration still earns the bonus",
			hour:   weather.HourPoint{Time: "2024-01-01T12:00", Temp: 36, Humidity: 10, ET0: fp(0)},
			score:  100,
			reason: "Rain 0% • 36°C • Wind 0 km/h",
		},
		{
			name:   "half rounds up",
			hour:   weather.HourPoint{Time: "2024-01-01T12:00", Temp: 26, PrecipitationProb: fp(12.5)},
			score:  93,
			reason: "Rain 12.5% • 26°C • Wind 0 km/h",
		},
		{
			name:   "evening bonus starts at 17",
			hour:   weather.HourPoint{Time: "2024-01-01T17:00", Temp: 36},
			score:  86,
			reason: "Rain 0% • 36°C • Wind 0 km/h",
		},
		{
			name:   "morning bonus ends at 9",
			hour:   weather.HourPoint{Time: "2024-01-01T10:00", Temp: 36},
			score:  80,
			reason: "Rain 0% • 36°C • Wind 0 km/h",
		},
		{
			name:   "clamps to zero",
			hour:   weather.HourPoint{Time: "2024-01-01T13:00", Temp: 60, Wind: 40, PrecipitationProb: fp(100)},
			score:  0,
			reason: "Rain 100% • 60°C • Wind 40 km/h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := scoreHour(tt.hour)
			assert.Equal(t, tt.hour.Time, w.Time)
			assert.Equal(t, tt.score, w.Score)
			assert.Equal(t, tt.reason, w.Reason)
		})
	}
}

func TestScoreIrrigationOnlyToday(t *testing.T) {
	days := []weather.DayAggregate{{Date: "2024-01-01"}, {Date: "2024-01-02"}}
	hourly := []weather.HourPoint{
		{Time: "2024-01-01T12:00", Temp: 30, Wind: 12, Humidity: 50, PrecipitationProb: fp(50)},
		{Time: "2024-01-02T06:00", Temp: 26, Humidity: 85},
	}

	windows := ScoreIrrigation(days, hourly)
	require.Len(t, windows, 1)
	assert.Equal(t, "2024-01-01T12:00", windows[0].Time)
}

func TestScoreIrrigationTopThreeStable(t *testing.T) {
	days := []weather.DayAggregate{{Date: "2024-01-01"}}
	hourly := []weather.HourPoint{
		{Time: "2024-01-01T12:00", Temp: 30},
		{Time: "2024-01-01T00:00", Temp: 26, Humidity: 85},
		{Time: "2024-01-01T01:00", Temp: 26, Humidity: 85},
		{Time: "2024-01-01T13:00", Temp: 50},
		{Time: "2024-01-01T02:00", Temp: 26, Humidity: 85},
		{Time: "2024-01-01T03:00", Temp: 26, Humidity: 85},
	}

	windows := ScoreIrrigation(days, hourly)
	require.Len(t, windows, 3)
	for i, want := range []string{"2024-01-01T00:00", "2024-01-01T01:00", "2024-01-01T02:00"} {
		assert.Equal(t, want, windows[i].Time)
		assert.Equal(t, 100, windows[i].Score)
	}
}

func TestScoreIrrigationSortsDescending(t *testing.T) {
	days := []weather.DayAggregate{{Date: "2024-01-01"}}
	hourly := []weather.HourPoint{
		{Time: "2024-01-01T12:00", Temp: 30},
		{Time: "2024-01-01T13:00", Temp: 40},
		{Time: "2024-01-01T14:00", Temp: 26},
	}

	windows := ScoreIrrigation(days, hourly)
	require.Len(t, windows, 3)
	assert.Equal(t, []int{100, 92, 72}, []int{windows[0].Score, windows[1].Score, windows[2].Score})
	for _, w := range windows {
		assert.GreaterOrEqual(t, w.Score, 0)
		assert.LessOrEqual(t, w.Score, 100)
	}
}

func TestScoreIrrigationEmpty(t *testing.T) {
	hourly := []weather.HourPoint{{Time: "2024-01-01T06:00"}}

	assert.Empty(t, ScoreIrrigation(nil, hourly))
	assert.NotNil(t, ScoreIrrigation(nil, hourly))
	assert.Empty(t, ScoreIrrigation([]weather.DayAggregate{{Date: "2024-01-01"}}, nil))
	assert.Empty(t, ScoreIrrigation([]weather.DayAggregate{{Date: "2024-01-03"}}, hourly))
}
