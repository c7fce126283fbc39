package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"evote/internal/auditchain"
	"evote/pkg/platform/tx"
)

// InMemoryStore holds the chain in id order. Appenders are serialized by the
// tx.LocalRunner around each append, which stands in for the tail row lock.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []auditchain.Entry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) LockTail(_ context.Context) (*auditchain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return nil, nil
	}
	tail := s.entries[len(s.entries)-1]
	return &tail, nil
}

func (s *InMemoryStore) Append(ctx context.Context, e *auditchain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.entries); n > 0 && s.entries[n-1].ID >= e.ID {
		return fmt.Errorf("audit entry %d does not follow tail %d", e.ID, s.entries[n-1].ID)
	}
	s.entries = append(s.entries, *e)
	id := e.ID
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if n := len(s.entries); n > 0 && s.entries[n-1].ID == id {
			s.entries = s.entries[:n-1]
		}
	})
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]auditchain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]auditchain.Entry(nil), s.entries...), nil
}

func (s *InMemoryStore) ListPage(_ context.Context, afterID int64, limit int) ([]auditchain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].ID > afterID })
	end := min(start+limit, len(s.entries))
	return append([]auditchain.Entry(nil), s.entries[start:end]...), nil
}

// Tamper overwrites a stored entry without recomputing any hash. Tests use it to
// simulate an edit made directly in the database.
func (s *InMemoryStore) Tamper(id int64, mutate func(*auditchain.Entry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			mutate(&s.entries[i])
			return true
		}
	}
	return false
}
