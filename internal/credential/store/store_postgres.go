package store

import (
	"context"
	"database/sql"
	"fmt"

	"evote/internal/credential"
	"evote/internal/platform/postgres"
	"evote/pkg/platform/sentinel"
	"evote/pkg/platform/tx"
)

// PostgresStore implements the issuance guard on a unique (voter_id, election_id)
// constraint. The guard row and the issuance record are separate tables with no
// shared key, so a record cannot be traced back to a voter.
type PostgresStore struct {
	db     *sql.DB
	runner *tx.SQLRunner
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, runner: tx.NewSQLRunner(db)}
}

// Issue atomically claims the guard and writes the record.
// Returns sentinel.ErrAlreadyUsed if the voter already holds a credential.
func (s *PostgresStore) Issue(ctx context.Context, voterID, electionID string, rec credential.IssuanceRecord) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		ex := postgres.Exec(ctx, s.db)
		res, err := ex.ExecContext(ctx, `
			INSERT INTO issuance_guards (voter_id, election_id, issued_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (voter_id, election_id) DO NOTHING
		`, voterID, electionID, rec.IssuedAt)
		if err != nil {
			return fmt.Errorf("insert issuance guard: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert issuance guard: %w", err)
		}
		if n == 0 {
			return sentinel.ErrAlreadyUsed
		}

		if _, err := ex.ExecContext(ctx, `
			INSERT INTO issued_tokens (id, issuance_fingerprint, issued_at)
			VALUES ($1, $2, $3)
		`, rec.ID, rec.Fingerprint, rec.IssuedAt); err != nil {
			return fmt.Errorf("insert issuance record: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) HasIssued(ctx context.Context, voterID, electionID string) (bool, error) {
	var exists bool
	err := postgres.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM issuance_guards WHERE voter_id = $1 AND election_id = $2)
	`, voterID, electionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check issuance guard: %w", err)
	}
	return exists, nil
}
