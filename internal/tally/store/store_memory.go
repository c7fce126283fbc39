package store

import (
	"context"
	"sort"
	"sync"

	"evote/internal/tally"
	"evote/pkg/platform/tx"
)

type tallyKey struct {
	electionID  string
	candidateID string
}

type InMemoryStore struct {
	mu      sync.RWMutex
	tallies map[tallyKey]tally.StoredTally
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{tallies: make(map[tallyKey]tally.StoredTally)}
}

func (s *InMemoryStore) SaveTallies(ctx context.Context, rows []tally.StoredTally) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		k := tallyKey{r.ElectionID, r.CandidateID}
		prev, had := s.tallies[k]
		s.tallies[k] = r
		tx.OnRollback(ctx, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if had {
				s.tallies[k] = prev
			} else {
				delete(s.tallies, k)
			}
		})
	}
	return nil
}

func (s *InMemoryStore) ListTallies(_ context.Context, electionID string) ([]tally.StoredTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []tally.StoredTally
	for k, v := range s.tallies {
		if k.electionID == electionID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CandidateID < out[j].CandidateID })
	return out, nil
}
