package store

import (
	"context"
	"sort"
	"sync"

	"evote/internal/keys"
	"evote/pkg/platform/sentinel"
)

// InMemoryStore keeps key material in process memory. Used in tests and single-node dev.
type InMemoryStore struct {
	mu   sync.RWMutex
	keys map[string]*keys.Material
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{keys: make(map[string]*keys.Material)}
}

func (s *InMemoryStore) Save(_ context.Context, m *keys.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.keys[m.ID]; exists {
		return sentinel.ErrConflict
	}
	s.keys[m.ID] = m
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, keyID string) (*keys.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.keys[keyID]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (s *InMemoryStore) ListPublic(_ context.Context) ([]keys.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]keys.Record, 0, len(s.keys))
	for _, m := range s.keys {
		out = append(out, m.Record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
