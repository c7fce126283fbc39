package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"evote/internal/ballot"
	"evote/internal/platform/postgres"
	"evote/internal/tally"
	"evote/pkg/platform/sentinel"
)

// PostgresStore keeps one ballots row per cast and one ballot_entries row per
// candidate ciphertext. The (election_id, scoped_hash) unique constraint is the
// replay guard.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, b *ballot.Ballot) error {
	ex := postgres.Exec(ctx, s.db)
	res, err := ex.ExecContext(ctx, `
		INSERT INTO ballots (id, election_id, scoped_hash, key_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (election_id, scoped_hash) DO NOTHING
	`, b.ID, b.ElectionID, b.ScopedHash, b.KeyID, b.CastAt)
	if err != nil {
		return fmt.Errorf("insert ballot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert ballot: %w", err)
	}
	if n == 0 {
		return sentinel.ErrAlreadyUsed
	}

	candidates := make([]string, len(b.Entries))
	ciphertexts := make([]string, len(b.Entries))
	exponents := make([]int64, len(b.Entries))
	for i, e := range b.Entries {
		candidates[i] = e.CandidateID
		ciphertexts[i] = e.Ciphertext.String()
		exponents[i] = int64(e.Exponent)
	}
	if _, err := ex.ExecContext(ctx, `
		INSERT INTO ballot_entries (ballot_id, candidate_id, ciphertext, exponent)
		SELECT $1, c, ct, x
		FROM unnest($2::text[], $3::text[], $4::bigint[]) AS t(c, ct, x)
	`, b.ID, pq.Array(candidates), pq.Array(ciphertexts), pq.Array(exponents)); err != nil {
		return fmt.Errorf("insert ballot entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCiphertexts(ctx context.Context, electionID string) ([][]tally.CiphertextEntry, error) {
	rows, err := postgres.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT b.id, e.candidate_id, e.ciphertext, e.exponent
		FROM ballots b
		JOIN ballot_entries e ON e.ballot_id = b.id
		WHERE b.election_id = $1
		ORDER BY b.cast_at, b.id, e.candidate_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list ballots: %w", err)
	}
	defer rows.Close()

	var (
		out     [][]tally.CiphertextEntry
		current uuid.UUID
	)
	for rows.Next() {
		var (
			id       uuid.UUID
			entry    tally.CiphertextEntry
			rawValue string
		)
		if err := rows.Scan(&id, &entry.CandidateID, &rawValue, &entry.Exponent); err != nil {
			return nil, fmt.Errorf("scan ballot entry: %w", err)
		}
		c, ok := new(big.Int).SetString(rawValue, 10)
		if !ok {
			return nil, fmt.Errorf("ballot %s: stored ciphertext is not an integer", id)
		}
		entry.Ciphertext = c
		if len(out) == 0 || id != current {
			out = append(out, nil)
			current = id
		}
		out[len(out)-1] = append(out[len(out)-1], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ballots: %w", err)
	}
	return out, nil
}
