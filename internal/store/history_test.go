package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bharti-kisan/agriguide/internal/assistant"
)

func TestHistoryStore(t *testing.T) {
	s := NewHistoryStore(3)
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Add(assistant.Record{ID: id})
	}

	ids := func(rs []assistant.Record) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"d", "c", "b"}, ids(s.List(0)))
	assert.Equal(t, []string{"d", "c"}, ids(s.List(2)))
	assert.Equal(t, []string{"d", "c", "b"}, ids(s.List(10)))

	s.Clear()
	assert.Empty(t, s.List(0))
}
