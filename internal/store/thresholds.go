package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bharti-kisan/agriguide/internal/advisory"
)

// ThresholdStore keeps alert thresholds per profile. When path is set the whole
// map is loaded once on open and rewritten on every Put.
type ThresholdStore struct {
	mu   sync.RWMutex
	path string
	data map[string]advisory.AlertThresholds
}

// OpenThresholdStore loads thresholds from path. An empty path keeps them in
// memory only; a missing file starts empty.
func OpenThresholdStore(path string) (*ThresholdStore, error) {
	s := &ThresholdStore{
		path: path,
		data: make(map[string]advisory.AlertThresholds),
	}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read thresholds: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode thresholds %s: %w", path, err)
	}
	return s, nil
}

// Get returns the profile's thresholds, or the defaults if none were saved.
func (s *ThresholdStore) Get(profile string) (advisory.AlertThresholds, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.data[profile]; ok {
		return t, nil
	}
	return advisory.DefaultThresholds(), nil
}

// Put replaces the profile's thresholds and persists the store. On a write
// failure the previous value is restored.
func (s *ThresholdStore) Put(profile string, t advisory.AlertThresholds) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data[profile]
	s.data[profile] = t

	if err := s.flush(); err != nil {
		if had {
			s.data[profile] = prev
		} else {
			delete(s.data, profile)
		}
		return err
	}
	return nil
}

// flush writes the map to a temp file and renames it over the target.
// Callers hold s.mu.
func (s *ThresholdStore) flush() error {
	if s.path == "" {
		return nil
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode thresholds: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create thresholds dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".thresholds-*.json")
	if err != nil {
		return fmt.Errorf("write thresholds: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write thresholds: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write thresholds: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write thresholds: %w", err)
	}
	return nil
}
