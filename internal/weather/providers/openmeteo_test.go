package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharti-kisan/agriguide/internal/common"
	"github.com/bharti-kisan/agriguide/internal/weather"
)

const forecastBody = `{
  "current_weather": {"temperature": 31.2, "windspeed": 9.4, "winddirection": 270, "weathercode": 2, "time": "2024-05-01T10:00"},
  "daily": {
    "time": ["2024-05-01", "2024-05-02"],
    "temperature_2m_max": [38.1, 36.4],
    "temperature_2m_min": [24.0, 23.5],
    "precipitation_sum": [0.0, 12.3],
    "windspeed_10m_max": [14.2, 28.0],
    "weathercode": [1, 63]
  }
}`

const hourlyBody = `{
  "hourly": {
    "time": ["2024-05-01T00:00", "2024-05-01T01:00"],
    "temperature_2m": [26.1, 25.7],
    "relative_humidity_2m": [71, 74],
    "weathercode": [0, 0],
    "precipitation": [0, 0.2],
    "precipitation_probability": [5, null],
    "windspeed_10m": [6.1, 5.4],
    "shortwave_radiation": [0, 0],
    "et0_fao_evapotranspiration": [0.02, 0.01]
  }
}`

func newTestProvider(t *testing.T) (*OpenMeteoProvider, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := NewOpenMeteoProvider(srv.Client(), OpenMeteoURLs{
		Forecast:  srv.URL + "/v1/forecast",
		Geocoding: srv.URL + "/geo/",
		Archive:   srv.URL + "/v1/era5",
	})
	return p, mux
}

func TestOpenMeteoFetchForecast(t *testing.T) {
	p, mux := newTestProvider(t)
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "18.52", q.Get("latitude"))
		assert.Equal(t, "73.85", q.Get("longitude"))
		assert.Equal(t, "auto", q.Get("timezone"))
		assert.Equal(t, "true", q.Get("current_weather"))
		assert.Equal(t, dailyFields, q.Get("daily"))
		_, _ = io.WriteString(w, forecastBody)
	})

	fc, err := p.FetchForecast(context.Background(), 18.52, 73.85)
	require.NoError(t, err)

	require.Len(t, fc.Days, 2)
	assert.Equal(t, weather.DayAggregate{
		Date: "2024-05-02", TempMax: 36.4, TempMin: 23.5, Precipitation: 12.3, Wind: 28,
		Code: 63, Condition: weather.ConditionRain,
	}, fc.Days[1])
	require.NotNil(t, fc.Current)
	assert.Equal(t, 31.2, fc.Current.Temperature)
	assert.Equal(t, weather.ConditionCloudy, fc.Current.Condition)
}

func TestOpenMeteoFetchForecastMalformed(t *testing.T) {
	p, mux := newTestProvider(t)
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"daily": {"time": ["2024-05-01"], "temperature_2m_max": []}}`)
	})

	_, err := p.FetchForecast(context.Background(), 1, 2)

	var dse *weather.DataShapeError
	require.True(t, errors.As(err, &dse))
	assert.Equal(t, "temperature_2m_max", dse.Field)
}

func TestOpenMeteoFetchHourly(t *testing.T) {
	p, mux := newTestProvider(t)
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, hourlyFields, r.URL.Query().Get("hourly"))
		_, _ = io.WriteString(w, hourlyBody)
	})

	points, err := p.FetchHourly(context.Background(), 18.52, 73.85)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 5.0, points[0].RainChance())
	assert.Nil(t, points[1].PrecipitationProb)
	assert.Equal(t, 0.01, *points[1].ET0)
	assert.Equal(t, 74.0, points[1].Humidity)
}

func TestOpenMeteoUpstreamClientError(t *testing.T) {
	p, mux := newTestProvider(t)
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`)
	})

	_, err := p.FetchHourly(context.Background(), 91, 0)

	var se *common.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, se.Body, "Latitude must be in range")
}

func TestOpenMeteoSearch(t *testing.T) {
	p, mux := newTestProvider(t)
	mux.HandleFunc("/geo/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Nashik", q.Get("name"))
		assert.Equal(t, "IN", q.Get("country"))
		assert.Equal(t, "10", q.Get("count"))
		_, _ = io.WriteString(w, `{"results":[{"id":1261731,"name":"Nashik","admin1":"Maharashtra","latitude":19.99,"longitude":73.79}]}`)
	})

	places, err := p.Search(context.Background(), "Nashik")
	require.NoError(t, err)
	assert.Equal(t, []weather.Place{{
		ID: "1261731", Name: "Nashik", Admin1: "Maharashtra", Latitude: 19.99, Longitude: 73.79,
	}}, places)
}

func TestOpenMeteoSearchNoResults(t *testing.T) {
	p, mux := newTestProvider(t)
	mux.HandleFunc("/geo/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"generationtime_ms":0.4}`)
	})

	places, err := p.Search(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)
}

func TestOpenMeteoReverse(t *testing.T) {
	p, mux := newTestProvider(t)
	calls := 0
	mux.HandleFunc("/geo/reverse", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = io.WriteString(w, `{"results":[{"id":7,"name":"Akola","admin1":"Maharashtra","latitude":20.7,"longitude":77.0}]}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	})

	place, ok, err := p.Reverse(context.Background(), 20.71, 77.01)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Akola", place.Name)

	_, ok, err = p.Reverse(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenMeteoFetchSoil(t *testing.T) {
	p, mux := newTestProvider(t)
	mux.HandleFunc("/v1/era5", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "soil_temperature_0cm,soil_moisture_0_to_7cm", r.URL.Query().Get("hourly"))
		_, _ = io.WriteString(w, `{"hourly":{
			"time": ["2024-05-01T00:00","2024-05-01T12:00","2024-05-02T12:00"],
			"soil_temperature_0cm": [24.1, 38.5, null],
			"soil_moisture_0_to_7cm": [0.21, 0.18]
		}}`)
	})

	soil, err := p.FetchSoil(context.Background(), 20.7, 77)
	require.NoError(t, err)
	require.Len(t, soil, 2)
	assert.Equal(t, "2024-05-01", soil[0].Date)
	assert.Equal(t, 38.5, *soil[0].SoilTempC)
	assert.Equal(t, 0.18, *soil[0].SoilMoistureM3)
	assert.Nil(t, soil[1].SoilTempC)
	assert.Nil(t, soil[1].SoilMoistureM3)
}
