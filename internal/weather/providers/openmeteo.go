package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/bharti-kisan/agriguide/internal/common"
	"github.com/bharti-kisan/agriguide/internal/weather"
)

const (
	hourlyFields = "temperature_2m,relative_humidity_2m,weathercode,precipitation," +
		"precipitation_probability,windspeed_10m,shortwave_radiation,et0_fao_evapotranspiration"
	dailyFields = "temperature_2m_max,temperature_2m_min,precipitation_sum,windspeed_10m_max,weathercode"

	soilPreviewDays = 7
)

// OpenMeteoURLs are the Open-Meteo endpoints; zero fields use the public API.
type OpenMeteoURLs struct {
	Forecast  string
	Geocoding string
	Archive   string
}

func (u OpenMeteoURLs) withDefaults() OpenMeteoURLs {
	if u.Forecast == "" {
		u.Forecast = "https://api.open-meteo.com/v1/forecast"
	}
	if u.Geocoding == "" {
		u.Geocoding = "https://geocoding-api.open-meteo.com/v1"
	}
	if u.Archive == "" {
		u.Archive = "https://archive-api.open-meteo.com/v1/era5"
	}
	u.Geocoding = strings.TrimRight(u.Geocoding, "/")
	return u
}

// OpenMeteoProvider implements weather.ForecastProvider, weather.Geocoder and
// weather.SoilProvider for Open-Meteo. No API key is required.
type OpenMeteoProvider struct {
	name    string
	urls    OpenMeteoURLs
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, urls OpenMeteoURLs) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name: "openmeteo",
		urls: urls.withDefaults(),
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// getJSON performs a resilient GET and decodes the JSON body into out.
func (p *OpenMeteoProvider) getJSON(ctx context.Context, base string, values url.Values, out any) error {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", base, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", p.name, err)
	}
	return nil
}

func coords(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("timezone", "auto")
	return values
}

// FetchForecast returns current conditions and the daily forecast.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	values := coords(lat, lon)
	values.Set("daily", dailyFields)
	values.Set("current_weather", "true")

	var payload struct {
		CurrentWeather *struct {
			Temperature   float64 `json:"temperature"`
			WindSpeed     float64 `json:"windspeed"`
			WindDirection float64 `json:"winddirection"`
			WeatherCode   int     `json:"weathercode"`
			Time          string  `json:"time"`
		} `json:"current_weather"`
		Daily weather.RawDaily `json:"daily"`
	}

	if err := p.getJSON(ctx, p.urls.Forecast, values, &payload); err != nil {
		return weather.Forecast{}, err
	}

	days, err := weather.NormalizeDaily(payload.Daily)
	if err != nil {
		return weather.Forecast{}, err
	}

	fc := weather.Forecast{Days: days}
	if cw := payload.CurrentWeather; cw != nil {
		fc.Current = &weather.CurrentWeather{
			Time:          cw.Time,
			Temperature:   cw.Temperature,
			WindSpeed:     cw.WindSpeed,
			WindDirection: cw.WindDirection,
			Code:          cw.WeatherCode,
			Condition:     weather.ConditionFromCode(cw.WeatherCode),
		}
	}
	return fc, nil
}

// FetchHourly returns the hourly forecast.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, lat, lon float64) ([]weather.HourPoint, error) {
	values := coords(lat, lon)
	values.Set("hourly", hourlyFields)

	var payload struct {
		Hourly weather.RawHourly `json:"hourly"`
	}
	if err := p.getJSON(ctx, p.urls.Forecast, values, &payload); err != nil {
		return nil, err
	}
	return weather.NormalizeHourly(payload.Hourly)
}

type geoResult struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r geoResult) place() weather.Place {
	return weather.Place{
		ID:        strconv.FormatInt(r.ID, 10),
		Name:      r.Name,
		Admin1:    r.Admin1,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// Search looks up places in India by name.
func (p *OpenMeteoProvider) Search(ctx context.Context, query string) ([]weather.Place, error) {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "10")
	values.Set("language", "en")
	values.Set("format", "json")
	values.Set("country", "IN")

	var payload struct {
		Results []geoResult `json:"results"`
	}
	if err := p.getJSON(ctx, p.urls.Geocoding+"/search", values, &payload); err != nil {
		return nil, err
	}

	places := make([]weather.Place, 0, len(payload.Results))
	for _, r := range payload.Results {
		places = append(places, r.place())
	}
	return places, nil
}

// Reverse returns the nearest named place.
func (p *OpenMeteoProvider) Reverse(ctx context.Context, lat, lon float64) (weather.Place, bool, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []geoResult `json:"results"`
	}
	if err := p.getJSON(ctx, p.urls.Geocoding+"/reverse", values, &payload); err != nil {
		return weather.Place{}, false, err
	}
	if len(payload.Results) == 0 {
		return weather.Place{}, false, nil
	}
	return payload.Results[0].place(), true, nil
}

// FetchSoil samples ERA5 surface soil temperature and moisture at noon for the
// first seven days returned.
func (p *OpenMeteoProvider) FetchSoil(ctx context.Context, lat, lon float64) ([]weather.SoilPreview, error) {
	values := coords(lat, lon)
	values.Set("hourly", "soil_temperature_0cm,soil_moisture_0_to_7cm")

	var payload struct {
		Hourly struct {
			Time         []string   `json:"time"`
			SoilTemp     []*float64 `json:"soil_temperature_0cm"`
			SoilMoisture []*float64 `json:"soil_moisture_0_to_7cm"`
		} `json:"hourly"`
	}
	if err := p.getJSON(ctx, p.urls.Archive, values, &payload); err != nil {
		return nil, err
	}

	at := func(vals []*float64, i int) *float64 {
		if i >= len(vals) {
			return nil
		}
		return vals[i]
	}

	out := make([]weather.SoilPreview, 0, soilPreviewDays)
	for i, ts := range payload.Hourly.Time {
		if !strings.HasSuffix(ts, "12:00") || len(ts) < len(weather.DateLayout) {
			continue
		}
		out = append(out, weather.SoilPreview{
			Date:           ts[:len(weather.DateLayout)],
			SoilTempC:      at(payload.Hourly.SoilTemp, i),
			SoilMoistureM3: at(payload.Hourly.SoilMoisture, i),
		})
		if len(out) == soilPreviewDays {
			break
		}
	}
	return out, nil
}
