package auditchain

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"evote/internal/platform/logger"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/tx"
	"evote/pkg/requestcontext"
)

var tracer = otel.Tracer("evote/internal/auditchain")

// Actor and role recorded when no authenticated caller is on the context.
const (
	SystemActor = "system"
	SystemRole  = "system"
)

// Store persists the chain. LockTail must serialize appenders until the enclosing
// unit of work ends and returns nil for an empty chain.
type Store interface {
	LockTail(ctx context.Context) (*Entry, error)
	Append(ctx context.Context, e *Entry) error
	List(ctx context.Context) ([]Entry, error)
	ListPage(ctx context.Context, afterID int64, limit int) ([]Entry, error)
}

type Service struct {
	store  Store
	tx     tx.Runner
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(store Store, runner tx.Runner, opts ...Option) *Service {
	s := &Service{store: store, tx: runner, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends action for the caller on ctx. When ctx already carries a unit of
// work the entry commits or rolls back with it.
func (s *Service) Record(ctx context.Context, action string) error {
	_, err := s.Append(ctx, action)
	return err
}

// Append links a new entry to the current tail and returns it.
func (s *Service) Append(ctx context.Context, action string) (*Entry, error) {
	ctx, span := tracer.Start(ctx, "auditchain.Append")
	defer span.End()
	span.SetAttributes(attribute.String("action", action))

	actor, role := requestcontext.Actor(ctx), requestcontext.Role(ctx)
	if actor == "" {
		actor, role = SystemActor, SystemRole
	}

	var out Entry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tail, err := s.store.LockTail(ctx)
		if err != nil {
			return fmt.Errorf("lock chain tail: %w", err)
		}
		out = Next(tail, actor, role, action, requestcontext.Now(ctx), requestcontext.ClientIP(ctx))
		if err := s.store.Append(ctx, &out); err != nil {
			return fmt.Errorf("append chain entry: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit entry")
	}
	entriesAppended.WithLabelValues(action).Inc()
	s.logger.InfoContext(ctx, "audit entry appended", "id", out.ID, "action", action, "actor", actor, "role", role)
	return &out, nil
}

// VerifyStored checks the persisted chain.
func (s *Service) VerifyStored(ctx context.Context) (*Report, error) {
	ctx, span := tracer.Start(ctx, "auditchain.VerifyStored")
	defer span.End()

	entries, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit chain")
	}
	r := Check(entries, requestcontext.Now(ctx))
	chainBreaks.Set(float64(len(r.Breaks) + len(r.Tampered)))
	span.SetAttributes(attribute.Bool("intact", r.Intact))
	if !r.Intact {
		s.logger.ErrorContext(ctx, "CRITICAL: audit chain integrity check failed",
			"breaks", len(r.Breaks),
			"tampered", len(r.Tampered),
		)
	}
	return &r, nil
}

// List returns up to limit entries after afterID, oldest first.
func (s *Service) List(ctx context.Context, afterID int64, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := s.store.ListPage(ctx, afterID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	return entries, nil
}
