package store

import (
	"context"
	"database/sql"
	"fmt"

	"evote/internal/bulletin"
	"evote/internal/platform/postgres"
)

const (
	positionConstraint = "wbb_entries_pkey"
	trackerConstraint  = "uq_wbb_tracker"
)

// PostgresStore keeps leaves in wbb_entries. Positions are reserved under a
// transaction-scoped advisory lock per election, so MAX(position)+1 is gap-free.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) NextPosition(ctx context.Context, electionID string) (int64, error) {
	if err := postgres.LockKey(ctx, s.db, "wbb:"+electionID); err != nil {
		return 0, err
	}
	var next int64
	err := postgres.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM wbb_entries WHERE election_id = $1
	`, electionID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("reserve board position: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) Insert(ctx context.Context, e *bulletin.Entry) error {
	_, err := postgres.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO wbb_entries
			(election_id, position, tracker, scoped_hash, leaf_hash, commitment_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ElectionID, e.Position, e.Tracker, e.ScopedHash, e.LeafHash, e.CommitmentHash, e.CreatedAt)
	if name, ok := postgres.ViolatedConstraint(err); ok {
		switch name {
		case trackerConstraint:
			return bulletin.ErrTrackerTaken
		case positionConstraint:
			return bulletin.ErrPositionTaken
		}
	}
	if err != nil {
		return fmt.Errorf("insert board entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByElection(ctx context.Context, electionID string) ([]bulletin.Entry, error) {
	rows, err := postgres.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT position, tracker, scoped_hash, leaf_hash, commitment_hash, created_at
		FROM wbb_entries
		WHERE election_id = $1
		ORDER BY position ASC
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list board entries: %w", err)
	}
	defer rows.Close()

	var out []bulletin.Entry
	for rows.Next() {
		e := bulletin.Entry{ElectionID: electionID}
		if err := rows.Scan(&e.Position, &e.Tracker, &e.ScopedHash, &e.LeafHash, &e.CommitmentHash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan board entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list board entries: %w", err)
	}
	return out, nil
}
