package store

import (
	"context"
	"sort"
	"sync"

	"evote/internal/election/models"
	"evote/pkg/platform/sentinel"
	"evote/pkg/platform/tx"
)

// InMemoryStore is the election registry for tests and single-node dev. Row locks are
// provided by the tx.LocalRunner that serializes units of work around it.
type InMemoryStore struct {
	mu        sync.RWMutex
	elections map[string]*models.Election
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{elections: make(map[string]*models.Election)}
}

func (s *InMemoryStore) Create(ctx context.Context, e *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.elections[e.ID]; exists {
		return sentinel.ErrConflict
	}
	s.elections[e.ID] = clone(e)
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.elections, e.ID)
	})
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.elections[id]
	if !ok {
		return nil, nil
	}
	return clone(e), nil
}

func (s *InMemoryStore) FindByIDForUpdate(ctx context.Context, id string) (*models.Election, error) {
	return s.FindByID(ctx, id)
}

func (s *InMemoryStore) FindByIDForShare(ctx context.Context, id string) (*models.Election, error) {
	return s.FindByID(ctx, id)
}

func (s *InMemoryStore) UpdateLifecycle(ctx context.Context, e *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.elections[e.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	prev := clone(cur)
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.elections[prev.ID] = prev
	})
	cur.Started, cur.Ended, cur.TallyGenerated = e.Started, e.Ended, e.TallyGenerated
	cur.StartedAt, cur.EndedAt = e.StartedAt, e.EndedAt
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Election, 0, len(s.elections))
	for _, e := range s.elections {
		out = append(out, clone(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func clone(e *models.Election) *models.Election {
	c := *e
	c.Candidates = append([]models.Candidate(nil), e.Candidates...)
	return &c
}
