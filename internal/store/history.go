package store

import (
	"sync"

	"github.com/bharti-kisan/agriguide/internal/assistant"
)

// HistoryStore is a bounded in-memory log of assistant exchanges.
type HistoryStore struct {
	mu      sync.RWMutex
	records []assistant.Record // oldest first
	max     int
}

// NewHistoryStore keeps at most max records (max <= 0 means unlimited).
func NewHistoryStore(max int) *HistoryStore {
	return &HistoryStore{max: max}
}

// Add appends a record, evicting the oldest beyond the limit.
func (s *HistoryStore) Add(r assistant.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
	if s.max > 0 && len(s.records) > s.max {
		s.records = s.records[len(s.records)-s.max:]
	}
}

// List returns up to limit records, newest first (limit <= 0 means all).
func (s *HistoryStore) List(limit int) []assistant.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]assistant.Record, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[i])
	}
	return out
}

// Clear removes every record.
func (s *HistoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
