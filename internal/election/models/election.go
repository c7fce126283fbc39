package models

import (
	"time"

	dErrors "evote/pkg/domain-errors"
)

// Candidate is one ballot option. Order within an election is the ballot order.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Election is the registry view of an election that the crypto core depends on.
//
// Invariants:
//   - Candidate ids are unique and the candidate set is fixed once the election starts
//   - RSAKeyID and PaillierKeyID are fixed at creation; credentials and ballots are
//     only valid under these keys
//   - Lifecycle flags only move forward: created -> started -> ended -> tallied
//   - TallyGenerated is set exactly once, under the election row lock, by the tally
type Election struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Candidates     []Candidate `json:"candidates"`
	RSAKeyID       string      `json:"rsa_key_id"`
	PaillierKeyID  string      `json:"paillier_key_id"`
	Started        bool        `json:"has_started"`
	Ended          bool        `json:"has_ended"`
	TallyGenerated bool        `json:"tally_generated"`
	CreatedAt      time.Time   `json:"created_at"`
	StartedAt      *time.Time  `json:"started_at,omitempty"`
	EndedAt        *time.Time  `json:"ended_at,omitempty"`
}

// CandidateIDs returns the candidate ids in ballot order.
func (e *Election) CandidateIDs() []string {
	ids := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		ids[i] = c.ID
	}
	return ids
}

// CandidateNames maps candidate id to display name.
func (e *Election) CandidateNames() map[string]string {
	names := make(map[string]string, len(e.Candidates))
	for _, c := range e.Candidates {
		names[c.ID] = c.Name
	}
	return names
}

func (e *Election) HasCandidate(id string) bool {
	for _, c := range e.Candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

// IsOpen reports whether ballots are currently accepted.
func (e *Election) IsOpen() bool {
	return e.Started && !e.Ended
}

// Validate checks a new election before it is registered.
func (e *Election) Validate() error {
	if e.ID == "" || len(e.ID) > 128 {
		return dErrors.New(dErrors.CodeValidation, "election id must be 1-128 characters")
	}
	if len(e.Candidates) == 0 {
		return dErrors.New(dErrors.CodeValidation, "election needs at least one candidate")
	}
	seen := make(map[string]struct{}, len(e.Candidates))
	for _, c := range e.Candidates {
		if c.ID == "" {
			return dErrors.New(dErrors.CodeValidation, "candidate id is required")
		}
		if _, dup := seen[c.ID]; dup {
			return dErrors.New(dErrors.CodeValidation, "duplicate candidate id")
		}
		seen[c.ID] = struct{}{}
	}
	if e.RSAKeyID == "" || e.PaillierKeyID == "" {
		return dErrors.New(dErrors.CodeValidation, "election must bind rsa and paillier keys")
	}
	return nil
}

func (e *Election) CanStart() error {
	if e.Started {
		return dErrors.New(dErrors.CodeInvariantViolation, "election already started")
	}
	return nil
}

func (e *Election) ApplyStart(now time.Time) {
	e.Started = true
	e.StartedAt = &now
}

func (e *Election) CanEnd() error {
	if !e.Started {
		return dErrors.New(dErrors.CodeElectionNotOpen, "election has not started")
	}
	if e.Ended {
		return dErrors.New(dErrors.CodeInvariantViolation, "election already ended")
	}
	return nil
}

func (e *Election) ApplyEnd(now time.Time) {
	e.Ended = true
	e.EndedAt = &now
}

// CanTally checks the tally guards. Callers hold the election row lock.
func (e *Election) CanTally() error {
	if e.TallyGenerated {
		return dErrors.New(dErrors.CodeTallyAlreadyGenerated, "tally already generated")
	}
	if !e.Ended {
		return dErrors.New(dErrors.CodeElectionNotEnded, "election has not ended")
	}
	return nil
}

func (e *Election) ApplyTally() {
	e.TallyGenerated = true
}
