package store

import (
	"context"
	"sync"

	"evote/internal/credential"
	"evote/pkg/platform/sentinel"
)

type guardKey struct {
	voterID    string
	electionID string
}

// InMemoryStore implements the issuance guard with a map under a mutex, so the
// check-and-insert is a single critical section.
type InMemoryStore struct {
	mu      sync.RWMutex
	guards  map[guardKey]struct{}
	records []credential.IssuanceRecord
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{guards: make(map[guardKey]struct{})}
}

func (s *InMemoryStore) Issue(_ context.Context, voterID, electionID string, rec credential.IssuanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := guardKey{voterID: voterID, electionID: electionID}
	if _, exists := s.guards[k]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.guards[k] = struct{}{}
	s.records = append(s.records, rec)
	return nil
}

func (s *InMemoryStore) HasIssued(_ context.Context, voterID, electionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.guards[guardKey{voterID: voterID, electionID: electionID}]
	return ok, nil
}

// Records returns a copy of the issuance records. Test helper.
func (s *InMemoryStore) Records() []credential.IssuanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]credential.IssuanceRecord(nil), s.records...)
}
