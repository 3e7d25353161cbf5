package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/bharti-kisan/agriguide/internal/weather"
)

type AppConfig struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s" validate:"gt=0"`

	// FetchInterval controls how often tracked locations are refreshed.
	FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"15m" validate:"gte=1m"`

	// TrackedLocations is "Name:lat:lon" entries separated by commas.
	TrackedLocations string             `envconfig:"WEATHER_LOCATIONS"`
	Locations        []weather.Location `ignored:"true"`

	// In-memory store retention.
	StoreMaxHistory int           `envconfig:"STORE_MAX_HISTORY" default:"96" validate:"gte=0"` // roughly 24h at 15-minute intervals
	StoreMaxAge     time.Duration `envconfig:"STORE_MAX_AGE" default:"24h" validate:"gte=0"`

	// ThresholdsFile persists alert thresholds; empty keeps them in memory.
	ThresholdsFile string `envconfig:"THRESHOLDS_FILE" default:"data/thresholds.json"`

	OpenMeteoBaseURL string `envconfig:"OPENMETEO_BASE_URL" validate:"omitempty,url"`
	GeocoderAPIKey   string `envconfig:"GEOCODER_API_KEY"`

	GroqAPIKey      string `envconfig:"GROQ_API_KEY"`
	GroqModel       string `envconfig:"GROQ_MODEL"`
	GroqVisionModel string `envconfig:"GROQ_VISION_MODEL"`
	HistoryMax      int    `envconfig:"AI_HISTORY_MAX" default:"100" validate:"gte=0"`

	DataGovAPIKey       string        `envconfig:"DATA_GOV_API_KEY"`
	DataGovAPIKeyCompat string        `envconfig:"VITE_DATA_GOV_API_KEY"`
	PriceCacheTTL       time.Duration `envconfig:"PRICE_CACHE_TTL" default:"5m" validate:"gte=0"`
}

// Load reads configuration from the environment (and .env, if present) with
// sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Only the client-side variable may be set in older deployments.
	if cfg.DataGovAPIKey == "" {
		cfg.DataGovAPIKey = cfg.DataGovAPIKeyCompat
	}

	locs, err := parseLocations(cfg.TrackedLocations)
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

func parseLocations(raw string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid WEATHER_LOCATIONS entry %q: want Name:lat:lon", entry)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("invalid latitude in WEATHER_LOCATIONS entry %q", entry)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("invalid longitude in WEATHER_LOCATIONS entry %q", entry)
		}

		locs = append(locs, weather.Location{
			Name: strings.TrimSpace(parts[0]),
			Lat:  lat,
			Lon:  lon,
		})
	}

	return locs, nil
}
