//go:build integration

package store_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"evote/internal/ballot"
	"evote/internal/ballot/store"
	"evote/internal/tally"
	"evote/pkg/platform/sentinel"
	"evote/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "ballot_entries", "ballots"))
}

func newBallot(electionID, scoped string, values ...int64) *ballot.Ballot {
	ids := []string{"c1", "c2", "c3"}
	b := &ballot.Ballot{
		ID:         uuid.New(),
		ElectionID: electionID,
		ScopedHash: scoped,
		KeyID:      "paillier-demo",
		CastAt:     time.Now().UTC(),
	}
	for i, v := range values {
		b.Entries = append(b.Entries, tally.CiphertextEntry{CandidateID: ids[i], Ciphertext: big.NewInt(v)})
	}
	return b
}

func (s *PostgresStoreSuite) TestScopedHashIsSpentOnce() {
	ctx := context.Background()
	s.Require().NoError(s.store.Insert(ctx, newBallot("E1", "h1", 11, 12, 13)))

	err := s.store.Insert(ctx, newBallot("E1", "h1", 21, 22, 23))
	s.True(errors.Is(err, sentinel.ErrAlreadyUsed))

	s.Require().NoError(s.store.Insert(ctx, newBallot("E2", "h1", 31, 32, 33)), "scoped hashes are per election")
}

func (s *PostgresStoreSuite) TestListCiphertextsGroupsByBallot() {
	ctx := context.Background()
	s.Require().NoError(s.store.Insert(ctx, newBallot("E1", "h1", 11, 12, 13)))
	s.Require().NoError(s.store.Insert(ctx, newBallot("E1", "h2", 21, 22, 23)))

	got, err := s.store.ListCiphertexts(ctx, "E1")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	for _, b := range got {
		s.Len(b, 3)
	}
	sum := new(big.Int)
	for _, b := range got {
		for _, e := range b {
			sum.Add(sum, e.Ciphertext)
		}
	}
	s.Equal(int64(11+12+13+21+22+23), sum.Int64())
}
