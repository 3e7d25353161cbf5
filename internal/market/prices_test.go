package market

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(market, date, modal string) PriceRow {
	return PriceRow{Market: market, Commodity: "Onion", ArrivalDate: date, ModalPrice: modal}
}

func TestToISO(t *testing.T) {
	iso, ok := ToISO("05/03/2024")
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", iso)

	_, ok = ToISO("2024-03-05")
	assert.False(t, ok)
}

func TestFilterByDate(t *testing.T) {
	rows := []PriceRow{
		row("Lasalgaon", "01/03/2024", "1500"),
		row("Pimpalgaon", "02/03/2024", "1600"),
		row("Nashik", "03/03/2024", "1700"),
		row("Broken", "March 3", "1700"),
	}

	assert.Len(t, FilterByDate(rows, "", ""), 4)
	assert.Len(t, FilterByDate(rows, "2024-03-02", "2024-03-03"), 2)
	assert.Len(t, FilterByDate(rows, "2024-03-02", ""), 2)
	assert.Len(t, FilterByDate(rows, "", "2024-03-01"), 1)
	assert.Empty(t, FilterByDate(rows, "2025-01-01", ""))
}

func TestSeries(t *testing.T) {
	rows := []PriceRow{
		row("Nashik", "02/03/2024", "1700"),
		row("Lasalgaon", "01/03/2024", "1500"),
		row("Pimpalgaon", "01/03/2024", "1601"),
		row("Yeola", "01/03/2024", "1500"),
		row("Broken", "n/a", "9999"),
		row("Junk", "02/03/2024", "NR"),
	}

	got := Series(rows)

	assert.Equal(t, []SeriesPoint{
		{Date: "2024-03-01", ModalAvg: 1533.67, Markets: 3},
		{Date: "2024-03-02", ModalAvg: 850, Markets: 2},
	}, got)
}

func TestSeriesEmpty(t *testing.T) {
	assert.Empty(t, Series(nil))
	assert.NotNil(t, Series(nil))
}

func points(avgs ...float64) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(avgs))
	for i, v := range avgs {
		out = append(out, SeriesPoint{Date: fmt.Sprintf("2024-03-%02d", i+1), ModalAvg: v, Markets: 1})
	}
	return out
}

func TestSeriesTrend(t *testing.T) {
	tr := SeriesTrend(points(1000, 1100, 1200, 1300, 1400, 1500, 1600, 1250))
	require.NotNil(t, tr.Latest)
	assert.Equal(t, 1250.0, *tr.Latest)
	require.NotNil(t, tr.Change7)
	assert.Equal(t, 25.0, *tr.Change7)

	// Only the point seven back is compared.
	tr = SeriesTrend(points(9999, 1200, 1, 1, 1, 1, 1, 1, 1000))
	require.NotNil(t, tr.Change7)
	assert.Equal(t, -16.67, *tr.Change7)
}

func TestSeriesTrendMissingValues(t *testing.T) {
	tr := SeriesTrend(nil)
	assert.Nil(t, tr.Latest)
	assert.Nil(t, tr.Change7)

	tr = SeriesTrend(points(1000, 1100, 1200, 1300, 1400, 1500, 1600))
	require.NotNil(t, tr.Latest)
	assert.Equal(t, 1600.0, *tr.Latest)
	assert.Nil(t, tr.Change7)

	tr = SeriesTrend(points(0, 1100, 1200, 1300, 1400, 1500, 1600, 1700))
	assert.Nil(t, tr.Change7)
}

func TestPriceQueryValidate(t *testing.T) {
	assert.NoError(t, PriceQuery{Commodity: "Onion", From: "2024-03-01", To: "2024-03-31"}.Validate())
	assert.Error(t, PriceQuery{From: "01/03/2024"}.Validate())
	assert.Error(t, PriceQuery{Limit: 5000}.Validate())
	assert.Error(t, PriceQuery{Offset: -1}.Validate())
}
