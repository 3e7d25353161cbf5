package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	ErrNoProvider = errors.New("no weather provider configured")
	ErrNoGeocoder = errors.New("no geocoder configured")
)

// FallbackPlaceName names coordinates the geocoder knows nothing about.
const FallbackPlaceName = "My Location"

// Service orchestrates fetching from the forecast provider and persisting snapshots.
type Service struct {
	store    Store
	provider ForecastProvider
	geocoder Geocoder
	soil     SoilProvider

	// seq is handed out at the start of every fetch so the store can tell
	// stale completions from fresh ones.
	seq atomic.Uint64
	now func() time.Time
}

// NewService creates a new Service. geocoder and soil may be nil.
func NewService(store Store, provider ForecastProvider, geocoder Geocoder, soil SoilProvider) *Service {
	return &Service{
		store:    store,
		provider: provider,
		geocoder: geocoder,
		soil:     soil,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Fetch fetches daily and hourly data concurrently for the given location and
// stores the resulting snapshot. A failed daily fetch fails the call; a failed
// hourly request degrades to a snapshot without hourly data. Malformed hourly
// data (*DataShapeError) fails the call like malformed daily data.
//
// When a fetch that started later has already been stored, the stored snapshot
// is returned instead of this one.
func (s *Service) Fetch(ctx context.Context, loc Location) (Snapshot, error) {
	if s.provider == nil {
		log.Printf("ERROR: No provider available to fetch weather data for %s", loc.Key())
		return Snapshot{}, ErrNoProvider
	}

	seq := s.seq.Add(1)
	log.Printf("DEBUG: Fetch called for %s (seq %d)", loc.Key(), seq)

	var (
		forecast Forecast
		hourly   []HourPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fc, err := s.provider.FetchForecast(gctx, loc.Lat, loc.Lon)
		if err != nil {
			return fmt.Errorf("provider %s forecast: %w", s.provider.Name(), err)
		}
		forecast = fc
		return nil
	})
	g.Go(func() error {
		h, err := s.provider.FetchHourly(gctx, loc.Lat, loc.Lon)
		if err != nil {
			// A malformed payload fails the refresh; a failed request only drops the hours.
			var dse *DataShapeError
			if errors.As(err, &dse) {
				return fmt.Errorf("provider %s hourly: %w", s.provider.Name(), err)
			}
			log.Printf("provider %s hourly fetch failed for %s: %v", s.provider.Name(), loc.Key(), err)
			return nil
		}
		if h == nil {
			h = []HourPoint{}
		}
		hourly = h
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("forecast fetch failed for %s: %v", loc.Key(), err)
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		Location:  loc,
		FetchedAt: s.now(),
		Current:   forecast.Current,
		Days:      forecast.Days,
		Hourly:    hourly,
		Seq:       seq,
	}
	if snapshot.Days == nil {
		snapshot.Days = []DayAggregate{}
	}

	if !s.store.SaveSnapshot(loc, snapshot) {
		log.Printf("DEBUG: discarding stale snapshot for %s (seq %d)", loc.Key(), seq)
		if latest, err := s.store.GetLatest(loc); err == nil {
			return latest, nil
		}
	}
	return snapshot, nil
}

// Search delegates place search to the geocoder.
func (s *Service) Search(ctx context.Context, query string) ([]Place, error) {
	if s.geocoder == nil {
		return nil, ErrNoGeocoder
	}
	return s.geocoder.Search(ctx, query)
}

// Reverse resolves coordinates to a place, falling back to a generic
// "My Location" place when the geocoder has no match.
func (s *Service) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	if s.geocoder == nil {
		return Place{}, ErrNoGeocoder
	}

	id := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)

	p, ok, err := s.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		return Place{}, err
	}
	if !ok {
		return Place{ID: id, Name: FallbackPlaceName, Latitude: lat, Longitude: lon}, nil
	}

	p.ID = id
	p.Latitude = lat
	p.Longitude = lon
	return p, nil
}

// Soil returns the soil preview for the location.
func (s *Service) Soil(ctx context.Context, loc Location) ([]SoilPreview, error) {
	if s.soil == nil {
		return nil, ErrNoProvider
	}
	return s.soil.FetchSoil(ctx, loc.Lat, loc.Lon)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (Snapshot, error) {
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]Snapshot, error) {
	return s.store.GetRange(loc, from, to)
}
