package keys

import (
	"context"
	"errors"
	"log/slog"

	"evote/internal/platform/logger"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/sentinel"
	"evote/pkg/requestcontext"
)

// ActionIssueKey is the audit action recorded for every published key.
const ActionIssueKey = "ISSUE_KEY"

// Store persists key material. FindByID returns (nil, nil) when the key is absent.
type Store interface {
	Save(ctx context.Context, m *Material) error
	FindByID(ctx context.Context, keyID string) (*Material, error)
	ListPublic(ctx context.Context) ([]Record, error)
}

// AuditRecorder appends a privileged action for the caller in ctx to the audit chain.
type AuditRecorder interface {
	Record(ctx context.Context, action string) error
}

// Service publishes and resolves signing and ballot-encryption keys.
type Service struct {
	store    Store
	recorder AuditRecorder
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateRequest describes a key to create. An empty KeyID defaults to the fingerprint.
type GenerateRequest struct {
	Algorithm Algorithm
	Bits      int
	KeyID     string
}

// Generate creates, persists and audits a new key.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Record, error) {
	if !req.Algorithm.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "algorithm must be rsa or paillier")
	}
	if req.Bits < MinBits(req.Algorithm) {
		return nil, dErrors.New(dErrors.CodeValidation, "key size too small")
	}
	m, err := Generate(req.Algorithm, req.Bits, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate key")
	}
	if req.KeyID != "" {
		m.ID = req.KeyID
	}
	return s.publish(ctx, m)
}

// Import publishes externally generated material, e.g. keys restored by the operator CLI.
func (s *Service) Import(ctx context.Context, m *Material) (*Record, error) {
	if m == nil || !m.Algorithm.IsValid() || m.Modulus == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "incomplete key material")
	}
	if m.ID == "" {
		m.ID = Fingerprint(m.Algorithm, m.Modulus)
	}
	return s.publish(ctx, m)
}

func (s *Service) publish(ctx context.Context, m *Material) (*Record, error) {
	if err := s.store.Save(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "key id already published")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save key")
	}
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, ActionIssueKey); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to audit key issuance")
		}
	}
	s.logger.InfoContext(ctx, "key published",
		"key_id", m.ID,
		"algorithm", m.Algorithm,
		"modulus_bits", m.Modulus.BitLen(),
	)
	rec := m.Record
	return &rec, nil
}

// Material resolves a key by id and checks its family. Absent keys are a not-found error
// because every caller holds an id taken from an election binding.
func (s *Service) Material(ctx context.Context, keyID string, alg Algorithm) (*Material, error) {
	m, err := s.store.FindByID(ctx, keyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load key")
	}
	if m == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "key not found")
	}
	if m.Algorithm != alg {
		return nil, dErrors.New(dErrors.CodeKeyMismatch, "key has wrong algorithm")
	}
	return m, nil
}

// Exists reports whether keyID is published with the given algorithm name.
func (s *Service) Exists(ctx context.Context, keyID, algorithm string) (bool, error) {
	m, err := s.store.FindByID(ctx, keyID)
	if err != nil {
		return false, err
	}
	return m != nil && string(m.Algorithm) == algorithm, nil
}

// ListPublic returns all published key records, oldest first.
func (s *Service) ListPublic(ctx context.Context) ([]Record, error) {
	recs, err := s.store.ListPublic(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list keys")
	}
	return recs, nil
}
