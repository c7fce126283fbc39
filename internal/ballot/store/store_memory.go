package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"evote/internal/ballot"
	"evote/internal/tally"
	"evote/pkg/platform/sentinel"
	"evote/pkg/platform/tx"
)

type scopedKey struct {
	electionID string
	scopedHash string
}

// InMemoryStore keeps ballots in cast order with a (election, scoped hash) index.
type InMemoryStore struct {
	mu      sync.RWMutex
	spent   map[scopedKey]struct{}
	ballots map[string][]ballot.Ballot
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		spent:   make(map[scopedKey]struct{}),
		ballots: make(map[string][]ballot.Ballot),
	}
}

func (s *InMemoryStore) Insert(ctx context.Context, b *ballot.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scopedKey{b.ElectionID, b.ScopedHash}
	if _, ok := s.spent[k]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.spent[k] = struct{}{}
	cp := *b
	cp.Entries = append([]tally.CiphertextEntry(nil), b.Entries...)
	s.ballots[b.ElectionID] = append(s.ballots[b.ElectionID], cp)
	tx.OnRollback(ctx, func() { s.remove(k, b.ID) })
	return nil
}

func (s *InMemoryStore) remove(k scopedKey, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.spent, k)
	list := s.ballots[k.electionID]
	for i := range list {
		if list[i].ID == id {
			s.ballots[k.electionID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (s *InMemoryStore) ListCiphertexts(_ context.Context, electionID string) ([][]tally.CiphertextEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]tally.CiphertextEntry, 0, len(s.ballots[electionID]))
	for _, b := range s.ballots[electionID] {
		out = append(out, append([]tally.CiphertextEntry(nil), b.Entries...))
	}
	return out, nil
}

// Count returns the number of stored ballots for an election.
func (s *InMemoryStore) Count(electionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ballots[electionID])
}
