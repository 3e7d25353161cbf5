package weather

import (
	"context"
	"time"
)

// ForecastProvider abstracts a multi-day weather source (e.g. Open-Meteo).
// The two calls may fail independently.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64) (Forecast, error)
	FetchHourly(ctx context.Context, lat, lon float64) ([]HourPoint, error)
}

// Geocoder resolves place names and coordinates.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
	// Reverse returns false when no place is known for the coordinates.
	Reverse(ctx context.Context, lat, lon float64) (Place, bool, error)
}

// SoilProvider returns surface soil conditions.
type SoilProvider interface {
	FetchSoil(ctx context.Context, lat, lon float64) ([]SoilPreview, error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	// SaveSnapshot stores the snapshot unless a newer one (higher Seq) is
	// already stored for the location. It reports whether the snapshot was kept.
	SaveSnapshot(loc Location, snapshot Snapshot) bool
	GetLatest(loc Location) (Snapshot, error)
	GetRange(loc Location, from, to time.Time) ([]Snapshot, error)
}
