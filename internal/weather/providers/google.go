package providers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/bharti-kisan/agriguide/internal/common"
	"github.com/bharti-kisan/agriguide/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder on the Google Geocoding API.
// The underlying client has no context support; ctx is only checked up front.
type GoogleGeocoder struct {
	circuit *gobreaker.CircuitBreaker
	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleGeocoder configures the package-level API key of the geocoder client.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		circuit: common.NewBreaker("google-geocoder"),
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

// Search resolves a free-form place name within India to a single place.
func (g *GoogleGeocoder) Search(ctx context.Context, query string) ([]weather.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	res, err := g.circuit.Execute(func() (interface{}, error) {
		return g.geocode(geocoder.Address{City: query, Country: "India"})
	})
	if err != nil {
		return nil, fmt.Errorf("google geocoding: %w", err)
	}

	loc := res.(geocoder.Location)
	return []weather.Place{{
		ID:        fmt.Sprintf("%f,%f", loc.Latitude, loc.Longitude),
		Name:      query,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}}, nil
}

// Reverse returns the locality at the coordinates.
func (g *GoogleGeocoder) Reverse(ctx context.Context, lat, lon float64) (weather.Place, bool, error) {
	if err := ctx.Err(); err != nil {
		return weather.Place{}, false, err
	}

	res, err := g.circuit.Execute(func() (interface{}, error) {
		return g.reverse(geocoder.Location{Latitude: lat, Longitude: lon})
	})
	if err != nil {
		return weather.Place{}, false, fmt.Errorf("google reverse geocoding: %w", err)
	}

	for _, a := range res.([]geocoder.Address) {
		if a.City == "" {
			continue
		}
		return weather.Place{Name: a.City, Admin1: a.State, Latitude: lat, Longitude: lon}, true, nil
	}
	return weather.Place{}, false, nil
}

// ChainGeocoder asks each geocoder in turn until one returns a result.
type ChainGeocoder []weather.Geocoder

// Search returns the first non-empty result. It only fails when every geocoder failed.
func (c ChainGeocoder) Search(ctx context.Context, query string) ([]weather.Place, error) {
	var (
		lastErr  error
		answered bool
	)
	for _, g := range c {
		places, err := g.Search(ctx, query)
		if err != nil {
			log.Printf("geocoder search failed for %q: %v", query, err)
			lastErr = err
			continue
		}
		if len(places) > 0 {
			return places, nil
		}
		answered = true
	}
	if !answered && lastErr != nil {
		return nil, lastErr
	}
	return []weather.Place{}, nil
}

// Reverse returns the first match. It only fails when every geocoder failed.
func (c ChainGeocoder) Reverse(ctx context.Context, lat, lon float64) (weather.Place, bool, error) {
	var (
		lastErr  error
		answered bool
	)
	for _, g := range c {
		p, ok, err := g.Reverse(ctx, lat, lon)
		if err != nil {
			log.Printf("geocoder reverse failed for %f,%f: %v", lat, lon, err)
			lastErr = err
			continue
		}
		if ok {
			return p, true, nil
		}
		answered = true
	}
	if answered {
		return weather.Place{}, false, nil
	}
	return weather.Place{}, false, lastErr
}
