// Package market fetches AGMARKNET daily mandi prices from data.gov.in.
package market

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// PriceRow is one market's prices for a commodity on a day, as published.
// Prices are ₹/quintal strings; ArrivalDate is DD/MM/YYYY.
type PriceRow struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	Grade       string `json:"grade"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

// PriceQuery filters the dataset. From and To are inclusive ISO dates.
type PriceQuery struct {
	Commodity string `json:"commodity"`
	State     string `json:"state"`
	District  string `json:"district"`
	Market    string `json:"market"`
	Variety   string `json:"variety"`
	Grade     string `json:"grade"`
	From      string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int    `json:"offset" validate:"gte=0"`
}

// DefaultLimit applies when the query leaves Limit at zero.
const DefaultLimit = 500

// Validate checks the query's ranges and date formats.
func (q PriceQuery) Validate() error {
	return validate.Struct(q)
}

// ToISO converts a DD/MM/YYYY date to YYYY-MM-DD.
func ToISO(d string) (string, bool) {
	ts, err := time.Parse("02/01/2006", strings.TrimSpace(d))
	if err != nil {
		return "", false
	}
	return ts.Format("2006-01-02"), true
}

// FilterByDate keeps rows whose arrival date lies within [from, to]. Empty
// bounds are open. Rows with unparseable dates are dropped when a bound is set.
func FilterByDate(rows []PriceRow, from, to string) []PriceRow {
	if from == "" && to == "" {
		return rows
	}
	out := make([]PriceRow, 0, len(rows))
	for _, r := range rows {
		iso, ok := ToISO(r.ArrivalDate)
		if !ok {
			continue
		}
		if (from == "" || iso >= from) && (to == "" || iso <= to) {
			out = append(out, r)
		}
	}
	return out
}

// SeriesPoint is the mean modal price across markets for one date.
type SeriesPoint struct {
	Date     string  `json:"date"`
	ModalAvg float64 `json:"modal_avg"`
	Markets  int     `json:"markets"`
}

// Series averages modal prices per arrival date, oldest first. Unparseable
// prices count as zero.
func Series(rows []PriceRow) []SeriesPoint {
	type acc struct {
		sum decimal.Decimal
		n   int64
	}

	byDate := make(map[string]*acc)
	for _, r := range rows {
		iso, ok := ToISO(r.ArrivalDate)
		if !ok {
			continue
		}
		modal, err := decimal.NewFromString(strings.TrimSpace(r.ModalPrice))
		if err != nil {
			modal = decimal.Zero
		}
		a, ok := byDate[iso]
		if !ok {
			a = &acc{sum: decimal.Zero}
			byDate[iso] = a
		}
		a.sum = a.sum.Add(modal)
		a.n++
	}

	out := make([]SeriesPoint, 0, len(byDate))
	for date, a := range byDate {
		avg := a.sum.Div(decimal.NewFromInt(a.n)).Round(2)
		out = append(out, SeriesPoint{Date: date, ModalAvg: avg.InexactFloat64(), Markets: int(a.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Trend is the latest series value and its percentage change against the
// value seven points earlier. Either is nil when it cannot be computed.
type Trend struct {
	Latest  *float64 `json:"latest"`
	Change7 *float64 `json:"change7"`
}

// trendLag is how many series points back the weekly comparison reaches.
const trendLag = 7

// SeriesTrend computes the Trend of a series sorted oldest first.
func SeriesTrend(series []SeriesPoint) Trend {
	var t Trend
	n := len(series)
	if n == 0 {
		return t
	}

	latest := series[n-1].ModalAvg
	t.Latest = &latest

	if n <= trendLag {
		return t
	}
	prev := decimal.NewFromFloat(series[n-1-trendLag].ModalAvg)
	if prev.IsZero() {
		return t
	}
	change := decimal.NewFromFloat(latest).Sub(prev).
		Div(prev).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
	t.Change7 = &change
	return t
}
