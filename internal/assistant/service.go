package assistant

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Record is one answered query.
type Record struct {
	ID         string    `json:"id"`
	Type       QueryType `json:"type"`
	Content    string    `json:"content"`
	HasImage   bool      `json:"hasImage"`
	Response   string    `json:"response"`
	Confidence int       `json:"confidence"`
	AskedAt    time.Time `json:"askedAt"`
}

// HistoryStore keeps recent records, newest first.
type HistoryStore interface {
	Add(r Record)
	List(limit int) []Record
	Clear()
}

// Asker answers queries.
type Asker interface {
	Ask(ctx context.Context, q Query) (Answer, error)
}

// Service answers queries and records them.
type Service struct {
	asker   Asker
	history HistoryStore
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(asker Asker, history HistoryStore) *Service {
	return &Service{
		asker:   asker,
		history: history,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Ask validates and forwards the query, recording successful answers.
func (s *Service) Ask(ctx context.Context, q Query) (Answer, error) {
	if err := q.Validate(); err != nil {
		return Answer{}, err
	}
	if q.Type == "" {
		q.Type = QueryText
	}

	ans, err := s.asker.Ask(ctx, q)
	if err != nil {
		log.Printf("ERROR: ai query (%s) failed: %v", q.Type, err)
		return Answer{}, err
	}

	s.history.Add(Record{
		ID:         uuid.NewString(),
		Type:       q.Type,
		Content:    q.Content,
		HasImage:   q.isImage(),
		Response:   ans.Response,
		Confidence: ans.Confidence,
		AskedAt:    s.now(),
	})
	return ans, nil
}

// History returns up to limit recent records.
func (s *Service) History(limit int) []Record {
	return s.history.List(limit)
}

// ClearHistory forgets all records.
func (s *Service) ClearHistory() {
	s.history.Clear()
}
