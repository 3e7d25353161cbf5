package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bharti-kisan/agriguide/internal/reminders"
)

// ErrReminderNotFound is returned when no reminder has the given id.
var ErrReminderNotFound = errors.New("reminder not found")

// ReminderStore keeps irrigation reminders in memory.
type ReminderStore struct {
	mu    sync.RWMutex
	items map[string]reminders.Reminder
	now   func() time.Time
}

// NewReminderStore creates an empty ReminderStore.
func NewReminderStore() *ReminderStore {
	return &ReminderStore{
		items: make(map[string]reminders.Reminder),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Add validates the draft and stores it as a new, not yet done reminder.
func (s *ReminderStore) Add(d reminders.Draft) (reminders.Reminder, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return reminders.Reminder{}, err
	}

	r := reminders.Reminder{
		ID:        uuid.NewString(),
		Title:     d.Title,
		Date:      d.Date,
		Time:      d.Time,
		Notes:     d.Notes,
		Repeat:    d.Repeat,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[r.ID] = r
	return r, nil
}

// List returns every reminder ordered by due date and time, earliest first.
// Reminders due at the same moment keep creation order.
func (s *ReminderStore) List() []reminders.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]reminders.Reminder, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Due() != out[j].Due() {
			return out[i].Due() < out[j].Due()
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get returns the reminder with the given id.
func (s *ReminderStore) Get(id string) (reminders.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return reminders.Reminder{}, ErrReminderNotFound
	}
	return r, nil
}

// Update applies a partial update to the reminder with the given id.
func (s *ReminderStore) Update(id string, p reminders.Patch) (reminders.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return reminders.Reminder{}, ErrReminderNotFound
	}
	r, err := p.Apply(r)
	if err != nil {
		return reminders.Reminder{}, err
	}
	s.items[id] = r
	return r, nil
}

// ToggleDone flips the done flag of the reminder with the given id.
func (s *ReminderStore) ToggleDone(id string) (reminders.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return reminders.Reminder{}, ErrReminderNotFound
	}
	r.Done = !r.Done
	s.items[id] = r
	return r, nil
}

// Delete removes the reminder with the given id.
func (s *ReminderStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrReminderNotFound
	}
	delete(s.items, id)
	return nil
}

// Clear removes every reminder.
func (s *ReminderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]reminders.Reminder)
}
