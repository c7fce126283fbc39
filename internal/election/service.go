// Package election is the registry the crypto core reads candidate sets, key bindings
// and lifecycle flags from. Start and End are privileged and audited.
package election

import (
	"context"
	"errors"
	"log/slog"

	"evote/internal/election/models"
	"evote/internal/platform/logger"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/sentinel"
	"evote/pkg/platform/tx"
	"evote/pkg/requestcontext"
)

// Audit actions recorded by lifecycle changes.
const (
	ActionCreateElection = "CREATE_ELECTION"
	ActionStartElection  = "START_ELECTION"
	ActionEndElection    = "END_ELECTION"
)

// Store persists elections. Find methods return (nil, nil) when absent.
type Store interface {
	Create(ctx context.Context, e *models.Election) error
	FindByID(ctx context.Context, id string) (*models.Election, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Election, error)
	FindByIDForShare(ctx context.Context, id string) (*models.Election, error)
	UpdateLifecycle(ctx context.Context, e *models.Election) error
	List(ctx context.Context) ([]*models.Election, error)
}

// AuditRecorder appends a privileged action for the caller in ctx.
type AuditRecorder interface {
	Record(ctx context.Context, action string) error
}

// KeyChecker confirms a key id is published under the expected algorithm.
type KeyChecker interface {
	Exists(ctx context.Context, keyID, algorithm string) (bool, error)
}

type Service struct {
	store    Store
	tx       tx.Runner
	recorder AuditRecorder
	keys     KeyChecker
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithKeyChecker(k KeyChecker) Option {
	return func(s *Service) { s.keys = k }
}

func NewService(store Store, runner tx.Runner, opts ...Option) *Service {
	s := &Service{store: store, tx: runner, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new election with its candidates and key bindings.
func (s *Service) Create(ctx context.Context, e *models.Election) (*models.Election, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if s.keys != nil {
		if err := s.checkKey(ctx, e.RSAKeyID, "rsa"); err != nil {
			return nil, err
		}
		if err := s.checkKey(ctx, e.PaillierKeyID, "paillier"); err != nil {
			return nil, err
		}
	}
	e.CreatedAt = requestcontext.Now(ctx)
	e.Started, e.Ended, e.TallyGenerated = false, false, false

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, e); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "election already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create election")
		}
		return s.record(ctx, ActionCreateElection)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "election created", "election_id", e.ID, "candidates", len(e.Candidates))
	return e, nil
}

func (s *Service) checkKey(ctx context.Context, keyID, alg string) error {
	ok, err := s.keys.Exists(ctx, keyID, alg)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve key")
	}
	if !ok {
		return dErrors.New(dErrors.CodeValidation, alg+" key "+keyID+" is not published")
	}
	return nil
}

// Get returns the election or a not-found error.
func (s *Service) Get(ctx context.Context, id string) (*models.Election, error) {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load election")
	}
	if e == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	return e, nil
}

// GetForShare loads the election under a shared row lock held until the caller's
// unit of work ends. Call it inside tx.Runner.RunInTx.
func (s *Service) GetForShare(ctx context.Context, id string) (*models.Election, error) {
	e, err := s.store.FindByIDForShare(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock election")
	}
	if e == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Election, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list elections")
	}
	return out, nil
}

// Start opens the election for ballots.
func (s *Service) Start(ctx context.Context, id string) (*models.Election, error) {
	return s.transition(ctx, id, ActionStartElection, func(e *models.Election) error {
		if err := e.CanStart(); err != nil {
			return err
		}
		e.ApplyStart(requestcontext.Now(ctx))
		return nil
	})
}

// End closes the election. Tally becomes possible afterwards.
func (s *Service) End(ctx context.Context, id string) (*models.Election, error) {
	return s.transition(ctx, id, ActionEndElection, func(e *models.Election) error {
		if err := e.CanEnd(); err != nil {
			return err
		}
		e.ApplyEnd(requestcontext.Now(ctx))
		return nil
	})
}

func (s *Service) transition(ctx context.Context, id, action string, apply func(*models.Election) error) (*models.Election, error) {
	var out *models.Election
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.store.FindByIDForUpdate(ctx, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock election")
		}
		if e == nil {
			return dErrors.New(dErrors.CodeNotFound, "election not found")
		}
		if err := apply(e); err != nil {
			return err
		}
		if err := s.store.UpdateLifecycle(ctx, e); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update election")
		}
		if err := s.record(ctx, action); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "election lifecycle changed", "election_id", id, "action", action)
	return out, nil
}

func (s *Service) record(ctx context.Context, action string) error {
	if s.recorder == nil {
		return nil
	}
	if err := s.recorder.Record(ctx, action); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit entry")
	}
	return nil
}
