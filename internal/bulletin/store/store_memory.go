package store

import (
	"context"
	"sync"

	"evote/internal/bulletin"
)

// InMemoryStore keeps leaves per election in position order. Position reservation is
// serialized by the tx.LocalRunner wrapping each cast.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]bulletin.Entry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]bulletin.Entry)}
}

func (s *InMemoryStore) NextPosition(_ context.Context, electionID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries[electionID])), nil
}

func (s *InMemoryStore) Insert(_ context.Context, e *bulletin.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.entries[e.ElectionID]
	for _, x := range cur {
		if x.Tracker == e.Tracker {
			return bulletin.ErrTrackerTaken
		}
	}
	if e.Position != int64(len(cur)) {
		return bulletin.ErrPositionTaken
	}
	s.entries[e.ElectionID] = append(cur, *e)
	return nil
}

func (s *InMemoryStore) ListByElection(_ context.Context, electionID string) ([]bulletin.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]bulletin.Entry(nil), s.entries[electionID]...), nil
}
