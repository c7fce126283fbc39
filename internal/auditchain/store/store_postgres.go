package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evote/internal/auditchain"
	"evote/internal/platform/postgres"
)

const tailLockKey = "admin_logs:tail"

// PostgresStore keeps the chain in admin_logs. The tail is locked with a
// transaction-scoped advisory lock plus FOR UPDATE on the last row, so the lock also
// covers the empty chain.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LockTail(ctx context.Context) (*auditchain.Entry, error) {
	if err := postgres.LockKey(ctx, s.db, tailLockKey); err != nil {
		return nil, err
	}
	row := postgres.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, actor, role, action, ts, source_address, prev_hash, entry_hash
		FROM admin_logs
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE
	`)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read chain tail: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) Append(ctx context.Context, e *auditchain.Entry) error {
	_, err := postgres.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO admin_logs (id, actor, role, action, ts, source_address, prev_hash, entry_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Actor, e.Role, e.Action, e.Timestamp, e.SourceAddress, e.PrevHash, e.EntryHash)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]auditchain.Entry, error) {
	rows, err := postgres.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, actor, role, action, ts, source_address, prev_hash, entry_hash
		FROM admin_logs
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return collect(rows)
}

func (s *PostgresStore) ListPage(ctx context.Context, afterID int64, limit int) ([]auditchain.Entry, error) {
	rows, err := postgres.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT id, actor, role, action, ts, source_address, prev_hash, entry_hash
		FROM admin_logs
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return collect(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*auditchain.Entry, error) {
	var e auditchain.Entry
	if err := row.Scan(&e.ID, &e.Actor, &e.Role, &e.Action, &e.Timestamp, &e.SourceAddress, &e.PrevHash, &e.EntryHash); err != nil {
		return nil, err
	}
	e.Timestamp = e.Timestamp.UTC()
	return &e, nil
}

func collect(rows *sql.Rows) ([]auditchain.Entry, error) {
	defer rows.Close()
	var out []auditchain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return out, nil
}
