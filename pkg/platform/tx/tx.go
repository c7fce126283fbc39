// Package tx carries a database transaction through context so that several stores
// can take part in one unit of work.
package tx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

type ctxKey struct{}
type localKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner executes fn as a single unit of work. Stores called with the context
// passed to fn join the unit.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs units of work in database/sql transactions.
type SQLRunner struct {
	db   *sql.DB
	opts *sql.TxOptions
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

// RunInTx begins a transaction, commits when fn returns nil and rolls back otherwise.
// A context that already carries a transaction is reused as is.
func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	t, err := r.db.BeginTx(ctx, r.opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = t.Rollback()
	}()

	if err := fn(WithTx(ctx, t)); err != nil {
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LocalRunner serializes units of work in-process. It pairs with the in-memory
// stores, which register undo steps with OnRollback instead of relying on a database.
type LocalRunner struct {
	mu sync.Mutex
}

type localUnit struct {
	runner *LocalRunner
	undo   []func()
}

func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// RunInTx runs fn under the runner's lock. If fn fails, registered undo steps run in
// reverse order.
func (r *LocalRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if u, _ := ctx.Value(localKey{}).(*localUnit); u != nil && u.runner == r {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u := &localUnit{runner: r}
	if err := fn(context.WithValue(ctx, localKey{}, u)); err != nil {
		for i := len(u.undo) - 1; i >= 0; i-- {
			u.undo[i]()
		}
		return err
	}
	return nil
}

// OnRollback registers undo with the local unit of work carried by ctx. Outside a
// local unit it does nothing.
func OnRollback(ctx context.Context, undo func()) {
	if u, _ := ctx.Value(localKey{}).(*localUnit); u != nil {
		u.undo = append(u.undo, undo)
	}
}
