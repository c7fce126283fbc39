// Package bulletin is the public append-only ledger of ballot commitments. Each
// election's leaves form a Merkle tree in position order; anyone can recompute the
// root and check a single leaf's inclusion.
package bulletin

import (
	"context"
	"errors"
	"log/slog"

	"evote/internal/bulletin/merkle"
	"evote/internal/platform/logger"
	"evote/internal/reuse"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/audit"
	"evote/pkg/requestcontext"
)

// Store persists leaves.
//
// NextPosition reserves the next position for an election and must be called inside
// a unit of work; it holds the election's sequence lock until that unit ends.
// Insert returns ErrTrackerTaken or ErrPositionTaken on a uniqueness conflict.
type Store interface {
	NextPosition(ctx context.Context, electionID string) (int64, error)
	Insert(ctx context.Context, e *Entry) error
	ListByElection(ctx context.Context, electionID string) ([]Entry, error)
}

var (
	ErrTrackerTaken  = errors.New("tracker already used in election")
	ErrPositionTaken = errors.New("board position already taken")
)

type AnomalyReporter interface {
	Report(ctx context.Context, ev audit.SecurityEvent)
}

type Service struct {
	store    Store
	reporter AnomalyReporter
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithAnomalyReporter(r AnomalyReporter) Option {
	return func(s *Service) { s.reporter = r }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append publishes a leaf at the next position. Callers run it in the same unit of
// work that stores the ballot so the two cannot diverge.
func (s *Service) Append(ctx context.Context, electionID, tracker, scopedHash, commitmentHash string) (*Entry, error) {
	pos, err := s.store.NextPosition(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reserve board position")
	}
	e := &Entry{
		ElectionID:     electionID,
		Position:       pos,
		Tracker:        tracker,
		ScopedHash:     scopedHash,
		LeafHash:       reuse.LeafHash(electionID, scopedHash, tracker),
		CommitmentHash: commitmentHash,
		CreatedAt:      requestcontext.Now(ctx).UTC(),
	}
	if err := s.store.Insert(ctx, e); err != nil {
		if errors.Is(err, ErrTrackerTaken) {
			return nil, dErrors.New(dErrors.CodeConflict, "tracker already used in this election")
		}
		if errors.Is(err, ErrPositionTaken) {
			return nil, s.positionRace(ctx, electionID, pos)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append board entry")
	}
	boardAppends.Inc()
	s.logger.InfoContext(ctx, "board entry appended", "election_id", electionID, "position", pos)
	return e, nil
}

// positionRace means the sequence lock failed to serialize two appends.
func (s *Service) positionRace(ctx context.Context, electionID string, pos int64) error {
	positionRaces.Inc()
	s.logger.ErrorContext(ctx, "CRITICAL: board position race", "election_id", electionID, "position", pos)
	if s.reporter != nil {
		s.reporter.Report(ctx, audit.SecurityEvent{
			Action:     audit.ActionSequenceRace,
			ElectionID: electionID,
			Reason:     audit.ReasonBoardPositionRace,
		})
	}
	return dErrors.New(dErrors.CodeIntegrity, "board position already taken")
}

// List returns the board. With a tracker filter only matching items are listed, but
// count and root still cover the whole election.
func (s *Service) List(ctx context.Context, electionID, tracker string) (*View, error) {
	entries, err := s.store.ListByElection(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load board")
	}
	root, err := merkle.Root(leaves(entries))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeIntegrity, "board contains a malformed leaf")
	}

	v := &View{ElectionID: electionID, Count: len(entries), Root: root, Items: []Item{}}
	for _, e := range entries {
		if tracker != "" && e.Tracker != tracker {
			continue
		}
		v.Items = append(v.Items, e.item())
	}
	return v, nil
}

// Root is the current root over every leaf of the election.
func (s *Service) Root(ctx context.Context, electionID string) (string, int, error) {
	entries, err := s.store.ListByElection(ctx, electionID)
	if err != nil {
		return "", 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load board")
	}
	root, err := merkle.Root(leaves(entries))
	if err != nil {
		return "", 0, dErrors.Wrap(err, dErrors.CodeIntegrity, "board contains a malformed leaf")
	}
	return root, len(entries), nil
}

// Lookup finds a leaf by tracker or scoped hash and proves it against the current root.
func (s *Service) Lookup(ctx context.Context, electionID string, q Query) (*Proof, error) {
	if q.Tracker == "" && q.ScopedHash == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "provide tracker or token_hash")
	}
	entries, err := s.store.ListByElection(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load board")
	}
	if len(entries) == 0 {
		return &Proof{Found: false, Count: 0}, nil
	}

	ls := leaves(entries)
	root, err := merkle.Root(ls)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeIntegrity, "board contains a malformed leaf")
	}
	idx := find(entries, q)
	if idx < 0 {
		return &Proof{Found: false, Count: len(entries), Root: root}, nil
	}
	path, err := merkle.Proof(ls, idx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeIntegrity, "board contains a malformed leaf")
	}

	e := entries[idx]
	return &Proof{
		Found: true,
		Count: len(entries),
		Root:  root,
		Entry: &ProofEntry{
			ElectionID:     e.ElectionID,
			Tracker:        e.Tracker,
			CommitmentHash: e.CommitmentHash,
			Index:          e.Position,
			LeafHash:       e.LeafHash,
			MerklePath:     path,
			Root:           root,
			PublishedAt:    e.CreatedAt.Unix(),
		},
	}, nil
}

// Receipt looks up a tracker and checks its proof before handing it to the voter.
func (s *Service) Receipt(ctx context.Context, electionID, tracker string) (*Receipt, error) {
	if err := reuse.ValidateTracker(tracker); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	p, err := s.Lookup(ctx, electionID, Query{Tracker: tracker})
	if err != nil {
		return nil, err
	}
	if !p.Found {
		return &Receipt{Found: false}, nil
	}
	e := p.Entry
	return &Receipt{
		Found:          true,
		ElectionID:     e.ElectionID,
		Tracker:        e.Tracker,
		Position:       e.Index,
		LeafHash:       e.LeafHash,
		CommitmentHash: e.CommitmentHash,
		MerklePath:     e.MerklePath,
		Root:           e.Root,
		Verified:       merkle.Verify(e.LeafHash, int(e.Index), e.MerklePath, e.Root),
		PublishedAt:    e.PublishedAt,
	}, nil
}

func leaves(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.LeafHash
	}
	return out
}

// find is a linear scan; boards are election sized.
func find(entries []Entry, q Query) int {
	for i, e := range entries {
		if q.Tracker != "" {
			if e.Tracker == q.Tracker {
				return i
			}
			continue
		}
		if e.ScopedHash == q.ScopedHash {
			return i
		}
	}
	return -1
}
