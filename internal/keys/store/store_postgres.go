package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"evote/internal/keys"
	"evote/internal/platform/postgres"
	"evote/pkg/platform/sentinel"
)

// PostgresStore persists key records in the crypto_keys table.
// Rows are insert-only; a published key is never updated.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) execer(ctx context.Context) postgres.Executor {
	return postgres.Exec(ctx, s.db)
}

func (s *PostgresStore) Save(ctx context.Context, m *keys.Material) error {
	private, err := keys.EncodePrivate(m)
	if err != nil {
		return err
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO crypto_keys (key_id, algorithm, modulus, public_exponent, private_material, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, string(m.Algorithm), m.ModulusDecimal(), m.PublicExponent, private, m.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert crypto key: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, keyID string) (*keys.Material, error) {
	var (
		rec     keys.Record
		alg     string
		modulus string
		private []byte
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT key_id, algorithm, modulus, public_exponent, private_material, created_at
		FROM crypto_keys
		WHERE key_id = $1
	`, keyID).Scan(&rec.ID, &alg, &modulus, &rec.PublicExponent, &private, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find crypto key: %w", err)
	}
	rec.Algorithm = keys.Algorithm(alg)
	n, ok := new(big.Int).SetString(modulus, 10)
	if !ok {
		return nil, fmt.Errorf("crypto key %s: corrupt modulus", keyID)
	}
	rec.Modulus = n
	return keys.DecodePrivate(rec, private)
}

func (s *PostgresStore) ListPublic(ctx context.Context) ([]keys.Record, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT key_id, algorithm, modulus, public_exponent, created_at
		FROM crypto_keys
		ORDER BY created_at, key_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list crypto keys: %w", err)
	}
	defer rows.Close()

	var out []keys.Record
	for rows.Next() {
		var (
			rec     keys.Record
			alg     string
			modulus string
		)
		if err := rows.Scan(&rec.ID, &alg, &modulus, &rec.PublicExponent, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan crypto key: %w", err)
		}
		rec.Algorithm = keys.Algorithm(alg)
		n, ok := new(big.Int).SetString(modulus, 10)
		if !ok {
			return nil, fmt.Errorf("crypto key %s: corrupt modulus", rec.ID)
		}
		rec.Modulus = n
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crypto keys: %w", err)
	}
	return out, nil
}
