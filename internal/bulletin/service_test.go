package bulletin_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"evote/internal/bulletin"
	"evote/internal/bulletin/merkle"
	"evote/internal/bulletin/store"
	"evote/internal/reuse"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/audit"
	"evote/pkg/requestcontext"
)

type captureReporter struct {
	events []audit.SecurityEvent
}

func (c *captureReporter) Report(_ context.Context, ev audit.SecurityEvent) {
	c.events = append(c.events, ev)
}

// racingStore hands out a position that is already occupied.
type racingStore struct {
	*store.InMemoryStore
}

func (r racingStore) NextPosition(context.Context, string) (int64, error) { return 0, nil }

// =============================================================================
// Bulletin Board Test Suite
// =============================================================================

type BoardSuite struct {
	suite.Suite
	store    *store.InMemoryStore
	reporter *captureReporter
	service  *bulletin.Service
	ctx      context.Context
}

func TestBoardSuite(t *testing.T) {
	suite.Run(t, new(BoardSuite))
}

func (s *BoardSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.reporter = &captureReporter{}
	s.service = bulletin.NewService(s.store, bulletin.WithAnomalyReporter(s.reporter))
	s.ctx = requestcontext.WithTime(context.Background(), time.Unix(1767225600, 0))
}

func tracker(i int) string {
	return fmt.Sprintf("%016x", 0xabc000+i)
}

func (s *BoardSuite) appendN(electionID string, n int) []*bulletin.Entry {
	out := make([]*bulletin.Entry, n)
	for i := 0; i < n; i++ {
		scoped := reuse.ScopedCredentialHash(electionID, fmt.Sprintf("token-%d", i))
		e, err := s.service.Append(s.ctx, electionID, tracker(i), scoped, fmt.Sprintf("%064x", i))
		s.Require().NoError(err)
		out[i] = e
	}
	return out
}

// =============================================================================
// Append
// =============================================================================

func (s *BoardSuite) TestAppend() {
	s.Run("positions are gap-free per election", func() {
		entries := s.appendN("E1", 3)
		for i, e := range entries {
			s.Equal(int64(i), e.Position)
			s.Equal(reuse.LeafHash("E1", e.ScopedHash, e.Tracker), e.LeafHash)
		}
		other := s.appendN("E2", 1)
		s.Equal(int64(0), other[0].Position)
	})

	s.Run("reused tracker is a conflict", func() {
		_, err := s.service.Append(s.ctx, "E1", tracker(0), reuse.ScopedCredentialHash("E1", "fresh"), fmt.Sprintf("%064x", 9))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("position race is an integrity failure and is reported", func() {
		racing := bulletin.NewService(racingStore{s.store}, bulletin.WithAnomalyReporter(s.reporter))
		_, err := racing.Append(s.ctx, "E1", tracker(99), reuse.ScopedCredentialHash("E1", "late"), fmt.Sprintf("%064x", 1))
		s.True(dErrors.HasCode(err, dErrors.CodeIntegrity))
		s.Require().Len(s.reporter.events, 1)
		s.Equal(audit.ActionSequenceRace, s.reporter.events[0].Action)
		s.Equal(audit.ReasonBoardPositionRace, s.reporter.events[0].Reason)
	})
}

// =============================================================================
// List and Lookup
// =============================================================================

func (s *BoardSuite) TestList() {
	s.Run("empty board has the zero root", func() {
		v, err := s.service.List(s.ctx, "E1", "")
		s.Require().NoError(err)
		s.Equal(0, v.Count)
		s.Equal(merkle.EmptyRoot, v.Root)
		s.Empty(v.Items)
	})

	entries := s.appendN("E1", 5)

	s.Run("root covers every leaf", func() {
		v, err := s.service.List(s.ctx, "E1", "")
		s.Require().NoError(err)
		ls := make([]string, len(entries))
		for i, e := range entries {
			ls[i] = e.LeafHash
		}
		want, err := merkle.Root(ls)
		s.Require().NoError(err)
		s.Equal(want, v.Root)
		s.Equal(5, v.Count)
		s.Len(v.Items, 5)
		s.Equal(int64(1767225600), v.Items[0].PublishedAt)
	})

	s.Run("tracker filter keeps the full root", func() {
		full, err := s.service.List(s.ctx, "E1", "")
		s.Require().NoError(err)
		v, err := s.service.List(s.ctx, "E1", tracker(3))
		s.Require().NoError(err)
		s.Equal(full.Root, v.Root)
		s.Equal(5, v.Count)
		s.Require().Len(v.Items, 1)
		s.Equal(int64(3), v.Items[0].Index)
	})
}

func (s *BoardSuite) TestLookup() {
	s.Run("requires a selector", func() {
		_, err := s.service.Lookup(s.ctx, "E1", bulletin.Query{})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("empty board is not found", func() {
		p, err := s.service.Lookup(s.ctx, "E1", bulletin.Query{Tracker: tracker(0)})
		s.Require().NoError(err)
		s.False(p.Found)
		s.Equal(0, p.Count)
	})

	entries := s.appendN("E1", 6)

	s.Run("by tracker proves inclusion", func() {
		p, err := s.service.Lookup(s.ctx, "E1", bulletin.Query{Tracker: tracker(4)})
		s.Require().NoError(err)
		s.Require().True(p.Found)
		s.Equal(int64(4), p.Entry.Index)
		s.True(merkle.Verify(p.Entry.LeafHash, 4, p.Entry.MerklePath, p.Entry.Root))
	})

	s.Run("by scoped hash", func() {
		p, err := s.service.Lookup(s.ctx, "E1", bulletin.Query{ScopedHash: entries[2].ScopedHash})
		s.Require().NoError(err)
		s.Require().True(p.Found)
		s.Equal(tracker(2), p.Entry.Tracker)
	})

	s.Run("unknown tracker is not an error", func() {
		p, err := s.service.Lookup(s.ctx, "E1", bulletin.Query{Tracker: "ffffffffffffffff"})
		s.Require().NoError(err)
		s.False(p.Found)
		s.Equal(6, p.Count)
		s.NotEmpty(p.Root)
		s.Nil(p.Entry)
	})
}

func (s *BoardSuite) TestReceipt() {
	s.appendN("E1", 3)

	s.Run("verified receipt", func() {
		r, err := s.service.Receipt(s.ctx, "E1", tracker(1))
		s.Require().NoError(err)
		s.True(r.Found)
		s.True(r.Verified)
		s.Equal(int64(1), r.Position)
	})

	s.Run("malformed tracker", func() {
		_, err := s.service.Receipt(s.ctx, "E1", "XYZ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing tracker", func() {
		r, err := s.service.Receipt(s.ctx, "E1", "0000000000000000")
		s.Require().NoError(err)
		s.False(r.Found)
	})
}
