package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"evote/pkg/platform/audit"
)

// Store persists security events in the security_events table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// AppendSecurity inserts a batch in one transaction. Replayed ids are ignored.
func (s *Store) AppendSecurity(ctx context.Context, events []audit.SecurityEvent) error {
	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin security batch: %w", err)
	}
	defer func() {
		_ = t.Rollback()
	}()

	stmt, err := t.PrepareContext(ctx, `
		INSERT INTO security_events (id, occurred_at, election_id, subject, action, reason, ip, client, request_id, actor_id, severity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare security insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, ev.ID, ev.Timestamp, ev.ElectionID, ev.Subject, string(ev.Action),
			ev.Reason, ev.IP, ev.Client, ev.RequestID, ev.ActorID, string(ev.Severity)); err != nil {
			return fmt.Errorf("insert security event: %w", err)
		}
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit security batch: %w", err)
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.SecurityEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, occurred_at, election_id, subject, action, reason, ip, client, request_id, actor_id, severity
		FROM security_events
		ORDER BY occurred_at DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	return scanEvents(rows)
}

// ListByAction returns all events with the given action, oldest first.
func (s *Store) ListByAction(ctx context.Context, action audit.Action) ([]audit.SecurityEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, occurred_at, election_id, subject, action, reason, ip, client, request_id, actor_id, severity
		FROM security_events
		WHERE action = $1
		ORDER BY occurred_at, id
	`, string(action))
	if err != nil {
		return nil, fmt.Errorf("list security events by action: %w", err)
	}
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.SecurityEvent, error) {
	defer rows.Close()
	var out []audit.SecurityEvent
	for rows.Next() {
		var (
			ev               audit.SecurityEvent
			action, severity string
		)
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.ElectionID, &ev.Subject, &action, &ev.Reason,
			&ev.IP, &ev.Client, &ev.RequestID, &ev.ActorID, &severity); err != nil {
			return nil, fmt.Errorf("scan security event: %w", err)
		}
		ev.Action = audit.Action(action)
		ev.Severity = audit.Severity(severity)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate security events: %w", err)
	}
	return out, nil
}
