package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharti-kisan/agriguide/internal/weather"
)

var loc = weather.Location{Name: "Indore", Lat: 22.7196, Lon: 75.8577}

func snapAt(seq uint64, at time.Time) weather.Snapshot {
	return weather.Snapshot{Location: loc, FetchedAt: at, Seq: seq}
}

func TestMemoryStoreLatest(t *testing.T) {
	s := NewMemoryStore(0, 0)

	_, err := s.GetLatest(loc)
	assert.ErrorIs(t, err, ErrNotFound)

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.True(t, s.SaveSnapshot(loc, snapAt(1, t0)))
	require.True(t, s.SaveSnapshot(loc, snapAt(2, t0.Add(time.Minute))))

	latest, err := s.GetLatest(loc)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), latest.Seq)

	// Nearby coordinates that round to the same key share history.
	near := weather.Location{Lat: 22.71961, Lon: 75.85771}
	latest, err = s.GetLatest(near)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), latest.Seq)
}

func TestMemoryStoreRejectsStaleSnapshot(t *testing.T) {
	s := NewMemoryStore(0, 0)
	now := time.Now()

	require.True(t, s.SaveSnapshot(loc, snapAt(5, now)))
	assert.False(t, s.SaveSnapshot(loc, snapAt(3, now.Add(time.Second))))

	latest, err := s.GetLatest(loc)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), latest.Seq)
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 4; i++ {
		s.SaveSnapshot(loc, snapAt(uint64(i), t0.Add(time.Duration(i)*time.Hour)))
	}

	got, err := s.GetRange(loc, t0, t0.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(3), got[0].Seq)
	assert.Equal(t, uint64(4), got[1].Seq)
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.SaveSnapshot(loc, snapAt(1, now.Add(-3*time.Hour)))
	s.SaveSnapshot(loc, snapAt(2, now.Add(-2*time.Hour)))
	s.SaveSnapshot(loc, snapAt(3, now.Add(-30*time.Minute)))

	got, err := s.GetRange(loc, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(3), got[0].Seq)
}

func TestMemoryStoreKeepsNewestEvenWhenExpired(t *testing.T) {
	s := NewMemoryStore(0, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.SaveSnapshot(loc, snapAt(1, now.Add(-time.Hour)))

	latest, err := s.GetLatest(loc)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), latest.Seq)
}

func TestMemoryStoreRangeInclusive(t *testing.T) {
	s := NewMemoryStore(0, 0)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.SaveSnapshot(loc, snapAt(uint64(i+1), t0.Add(time.Duration(i)*time.Hour)))
	}

	got, err := s.GetRange(loc, t0, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.GetRange(loc, t0.Add(5*time.Hour), t0.Add(6*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetRange(weather.Location{Lat: 1, Lon: 1}, t0, t0)
	assert.ErrorIs(t, err, ErrNotFound)
}
