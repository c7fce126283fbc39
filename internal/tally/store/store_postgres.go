package store

import (
	"context"
	"database/sql"
	"fmt"

	"evote/internal/platform/postgres"
	"evote/internal/tally"
)

// PostgresStore keeps one row per (election, candidate). Sentinel totals are stored
// with their status so they are never read back as a plausible count.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveTallies(ctx context.Context, rows []tally.StoredTally) error {
	ex := postgres.Exec(ctx, s.db)
	for _, r := range rows {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO candidate_tallies
				(election_id, candidate_id, total, raw_total, status, salt, commitment, computed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (election_id, candidate_id) DO UPDATE SET
				total = EXCLUDED.total,
				raw_total = EXCLUDED.raw_total,
				status = EXCLUDED.status,
				salt = EXCLUDED.salt,
				commitment = EXCLUDED.commitment,
				computed_at = EXCLUDED.computed_at
		`, r.ElectionID, r.CandidateID, r.Total.Value, r.Total.Raw, string(r.Total.Status),
			r.Commitment.Salt, r.Commitment.Hash, r.ComputedAt)
		if err != nil {
			return fmt.Errorf("upsert tally %s/%s: %w", r.ElectionID, r.CandidateID, err)
		}
	}
	return nil
}

func (s *PostgresStore) ListTallies(ctx context.Context, electionID string) ([]tally.StoredTally, error) {
	rows, err := postgres.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT candidate_id, total, raw_total, status, salt, commitment, computed_at
		FROM candidate_tallies
		WHERE election_id = $1
		ORDER BY candidate_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list tallies: %w", err)
	}
	defer rows.Close()

	var out []tally.StoredTally
	for rows.Next() {
		t := tally.StoredTally{ElectionID: electionID}
		var status string
		if err := rows.Scan(&t.CandidateID, &t.Total.Value, &t.Total.Raw, &status,
			&t.Commitment.Salt, &t.Commitment.Hash, &t.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		t.Total.Status = tally.CountStatus(status)
		t.Commitment.CandidateID = t.CandidateID
		t.Commitment.ElectionID = electionID
		t.Commitment.Count = t.Total.String()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tallies: %w", err)
	}
	return out, nil
}
