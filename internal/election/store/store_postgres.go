package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evote/internal/election/models"
	"evote/internal/platform/postgres"
	"evote/pkg/platform/sentinel"
)

// PostgresStore persists elections and their ordered candidate lists.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the election and its candidates. ctx should carry a transaction so
// both inserts commit together.
func (s *PostgresStore) Create(ctx context.Context, e *models.Election) error {
	ex := postgres.Exec(ctx, s.db)
	_, err := ex.ExecContext(ctx, `
		INSERT INTO elections (id, name, rsa_key_id, paillier_key_id, has_started, has_ended, tally_generated, created_at)
		VALUES ($1, $2, $3, $4, false, false, false, $5)
	`, e.ID, e.Name, e.RSAKeyID, e.PaillierKeyID, e.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert election: %w", err)
	}
	for i, c := range e.Candidates {
		if _, err := ex.ExecContext(ctx, `
			INSERT INTO candidates (election_id, candidate_id, name, ballot_order)
			VALUES ($1, $2, $3, $4)
		`, e.ID, c.ID, c.Name, i); err != nil {
			return fmt.Errorf("insert candidate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Election, error) {
	return s.find(ctx, id, "")
}

// FindByIDForUpdate locks the election row until the surrounding transaction ends.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, id string) (*models.Election, error) {
	return s.find(ctx, id, " FOR UPDATE")
}

// FindByIDForShare takes a shared lock on the election row. Ballot and credential
// writes hold it so End and Tally, which lock FOR UPDATE, wait for them to commit.
func (s *PostgresStore) FindByIDForShare(ctx context.Context, id string) (*models.Election, error) {
	return s.find(ctx, id, " FOR SHARE")
}

func (s *PostgresStore) find(ctx context.Context, id, lock string) (*models.Election, error) {
	ex := postgres.Exec(ctx, s.db)
	row := ex.QueryRowContext(ctx, `
		SELECT id, name, rsa_key_id, paillier_key_id, has_started, has_ended, tally_generated,
		       created_at, started_at, ended_at
		FROM elections
		WHERE id = $1`+lock, id)
	e, err := scanElection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find election: %w", err)
	}
	if err := s.loadCandidates(ctx, ex, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) UpdateLifecycle(ctx context.Context, e *models.Election) error {
	res, err := postgres.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE elections
		SET has_started = $2, has_ended = $3, tally_generated = $4, started_at = $5, ended_at = $6
		WHERE id = $1
	`, e.ID, e.Started, e.Ended, e.TallyGenerated, e.StartedAt, e.EndedAt)
	if err != nil {
		return fmt.Errorf("update election lifecycle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update election lifecycle: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Election, error) {
	ex := postgres.Exec(ctx, s.db)
	rows, err := ex.QueryContext(ctx, `
		SELECT id, name, rsa_key_id, paillier_key_id, has_started, has_ended, tally_generated,
		       created_at, started_at, ended_at
		FROM elections
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	var out []*models.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan election: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate elections: %w", err)
	}
	_ = rows.Close()

	for _, e := range out {
		if err := s.loadCandidates(ctx, ex, e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) loadCandidates(ctx context.Context, ex postgres.Executor, e *models.Election) error {
	rows, err := ex.QueryContext(ctx, `
		SELECT candidate_id, name
		FROM candidates
		WHERE election_id = $1
		ORDER BY ballot_order
	`, e.ID)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	defer rows.Close()
	e.Candidates = e.Candidates[:0]
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return fmt.Errorf("scan candidate: %w", err)
		}
		e.Candidates = append(e.Candidates, c)
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanElection(row scanner) (*models.Election, error) {
	var (
		e                  models.Election
		startedAt, endedAt sql.NullTime
	)
	if err := row.Scan(&e.ID, &e.Name, &e.RSAKeyID, &e.PaillierKeyID, &e.Started, &e.Ended,
		&e.TallyGenerated, &e.CreatedAt, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	if startedAt.Valid {
		t := startedAt.Time
		e.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		e.EndedAt = &t
	}
	return &e, nil
}
