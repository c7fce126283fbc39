//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"evote/internal/credential"
	"evote/internal/credential/store"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "issuance_guards", "issued_tokens"))
}

// TestConcurrentIssuanceSucceedsOnce verifies the guard is a single atomic insert.
func (s *PostgresStoreSuite) TestConcurrentIssuanceSucceedsOnce() {
	ctx := context.Background()
	const goroutines = 40

	var wg sync.WaitGroup
	var ok, used atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := credential.NewIssuanceRecord("voter-1", "E1", time.Now())
			err := s.store.Issue(ctx, "voter-1", "E1", rec)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				used.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), ok.Load())
	s.Equal(int32(goroutines-1), used.Load())

	var records int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM issued_tokens`).Scan(&records))
	s.Equal(1, records, "losers must not leave an issuance record behind")
}

func (s *PostgresStoreSuite) TestGuardIsPerElection() {
	ctx := context.Background()
	s.Require().NoError(s.store.Issue(ctx, "voter-1", "E1", credential.NewIssuanceRecord("voter-1", "E1", time.Now())))
	s.Require().NoError(s.store.Issue(ctx, "voter-1", "E2", credential.NewIssuanceRecord("voter-1", "E2", time.Now())))

	issued, err := s.store.HasIssued(ctx, "voter-1", "E2")
	s.Require().NoError(err)
	s.True(issued)
	issued, err = s.store.HasIssued(ctx, "voter-2", "E1")
	s.Require().NoError(err)
	s.False(issued)
}
