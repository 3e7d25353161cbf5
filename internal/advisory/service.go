package advisory

import (
	"context"
	"fmt"
	"log"

	"github.com/bharti-kisan/agriguide/internal/weather"
)

// DefaultProfile is used when a caller does not name a threshold profile.
const DefaultProfile = "default"

// ThresholdStore persists thresholds keyed by a stable profile identifier.
// Get returns DefaultThresholds for unknown profiles.
type ThresholdStore interface {
	Get(profile string) (AlertThresholds, error)
	Put(profile string, t AlertThresholds) error
}

// Forecaster produces fresh forecast snapshots.
type Forecaster interface {
	Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error)
}

// Outlook is a forecast together with the advice derived from it.
type Outlook struct {
	weather.Snapshot
	Report
	Profile    string          `json:"profile"`
	Thresholds AlertThresholds `json:"thresholds"`
	Units      weather.Units   `json:"units"`
}

// Service combines forecasts with a profile's thresholds.
type Service struct {
	forecaster Forecaster
	thresholds ThresholdStore
}

// NewService creates a new Service.
func NewService(forecaster Forecaster, thresholds ThresholdStore) *Service {
	return &Service{forecaster: forecaster, thresholds: thresholds}
}

// Outlook fetches a fresh forecast and evaluates it with the profile's
// thresholds. Scoring always runs on metric values; units only affects the
// returned forecast figures.
func (s *Service) Outlook(ctx context.Context, loc weather.Location, profile string, units weather.Units) (Outlook, error) {
	if profile == "" {
		profile = DefaultProfile
	}

	t, err := s.thresholds.Get(profile)
	if err != nil {
		return Outlook{}, fmt.Errorf("load thresholds for %s: %w", profile, err)
	}

	snap, err := s.forecaster.Fetch(ctx, loc)
	if err != nil {
		return Outlook{}, err
	}

	return Outlook{
		Snapshot:   snap.InUnits(units),
		Report:     Evaluate(snap.Days, snap.Hourly, t),
		Profile:    profile,
		Thresholds: t,
		Units:      units,
	}, nil
}

// Refresh fetches the location with the default profile and logs any alerts.
func (s *Service) Refresh(ctx context.Context, loc weather.Location) error {
	o, err := s.Outlook(ctx, loc, DefaultProfile, weather.UnitsMetric)
	if err != nil {
		return err
	}
	for _, a := range o.Alerts {
		log.Printf("INFO: %s alert for %s: %s (%s)", a.Severity, loc.Label(), a.Title, a.Detail)
	}
	if o.BestHour != "" {
		log.Printf("DEBUG: best irrigation hour for %s: %s", loc.Label(), o.BestHour)
	}
	return nil
}

// Thresholds returns the profile's thresholds.
func (s *Service) Thresholds(profile string) (AlertThresholds, error) {
	return s.thresholds.Get(profile)
}

// UpdateThresholds validates and stores all four thresholds of a profile.
func (s *Service) UpdateThresholds(profile string, t AlertThresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return s.thresholds.Put(profile, t)
}

// ApplyPreset replaces the profile's thresholds with a named preset.
func (s *Service) ApplyPreset(profile, name string) (AlertThresholds, error) {
	t, err := Preset(name)
	if err != nil {
		return AlertThresholds{}, fmt.Errorf("%w: %q", err, name)
	}
	if err := s.thresholds.Put(profile, t); err != nil {
		return AlertThresholds{}, err
	}
	return t, nil
}
