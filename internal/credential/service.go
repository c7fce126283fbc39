package credential

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"evote/internal/credential/nonce"
	"evote/internal/election/models"
	"evote/internal/keys"
	"evote/internal/platform/logger"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/audit"
	"evote/pkg/platform/sentinel"
	"evote/pkg/platform/tx"
	"evote/pkg/requestcontext"
)

// Credential token and signature bounds accepted at spend time.
const (
	MaxTokenLen        = 512
	MinSignatureHexLen = 64
)

// ElectionReader resolves the election a request targets.
// ElectionReader resolves the election a request targets. GetForShare runs inside
// the issuance unit of work and keeps End from committing until the guard is written.
type ElectionReader interface {
	Get(ctx context.Context, id string) (*models.Election, error)
	GetForShare(ctx context.Context, id string) (*models.Election, error)
}

// KeyResolver loads key material bound to an election.
type KeyResolver interface {
	Material(ctx context.Context, keyID string, alg keys.Algorithm) (*keys.Material, error)
}

// IssuanceStore is the one-shot issuance guard. Issue must be atomic and return
// sentinel.ErrAlreadyUsed when the voter already received a credential for the election.
type IssuanceStore interface {
	Issue(ctx context.Context, voterID, electionID string, rec IssuanceRecord) error
	HasIssued(ctx context.Context, voterID, electionID string) (bool, error)
}

// AnomalyReporter receives cryptographic verification failures.
type AnomalyReporter interface {
	Report(ctx context.Context, ev audit.SecurityEvent)
}

// Service issues blind-signed credentials and verifies them at spend time.
type Service struct {
	elections ElectionReader
	keys      KeyResolver
	store     IssuanceStore
	nonces    nonce.KV
	nonceTTL  time.Duration
	tx        tx.Runner
	reporter  AnomalyReporter
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithNonceStore makes a one-time challenge mandatory for every signing request.
func WithNonceStore(kv nonce.KV, ttl time.Duration) Option {
	return func(s *Service) {
		s.nonces = kv
		s.nonceTTL = ttl
	}
}

func WithAnomalyReporter(r AnomalyReporter) Option {
	return func(s *Service) { s.reporter = r }
}

// WithTxRunner sets the runner the issuance guard is written in. It must be the
// runner the election store participates in.
func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func NewService(elections ElectionReader, keys KeyResolver, store IssuanceStore, opts ...Option) *Service {
	s := &Service{
		elections: elections,
		keys:      keys,
		store:     store,
		nonceTTL:  5 * time.Minute,
		tx:        tx.NewLocalRunner(),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestNonce issues a one-time challenge the voter must echo in SignBlinded.
// A new request replaces any outstanding challenge for the same voter and election.
func (s *Service) RequestNonce(ctx context.Context, voterID, electionID string) (string, error) {
	if s.nonces == nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "issuance challenges are not enabled")
	}
	if voterID == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "voter identity required")
	}
	el, err := s.elections.Get(ctx, electionID)
	if err != nil {
		return "", err
	}
	if !el.IsOpen() {
		return "", dErrors.New(dErrors.CodeElectionNotOpen, "election is not open")
	}
	n, err := nonce.New()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create challenge")
	}
	if err := s.nonces.Put(ctx, nonce.IssuanceKey(voterID, electionID), n, s.nonceTTL); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store challenge")
	}
	return n, nil
}

// SignBlinded signs a blinded digest for the voter, at most once per election.
func (s *Service) SignBlinded(ctx context.Context, req SignRequest) (*SignResult, error) {
	if req.VoterID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "voter identity required")
	}
	if req.BlindedHex == "" || req.RSAKeyID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "blinded_token_hex and rsa_key_id are required")
	}

	el, err := s.elections.Get(ctx, req.ElectionID)
	if err != nil {
		return nil, err
	}
	if !el.IsOpen() {
		issuanceRejected.WithLabelValues("election_not_open").Inc()
		return nil, dErrors.New(dErrors.CodeElectionNotOpen, "election is not open")
	}
	if el.RSAKeyID != req.RSAKeyID {
		issuanceRejected.WithLabelValues("key_mismatch").Inc()
		s.report(ctx, audit.ActionKeyMismatch, el.ID, "blind_sign")
		return nil, dErrors.Wrap(ErrKeyMismatch, dErrors.CodeKeyMismatch, "rsa key does not match election")
	}
	if err := s.redeemNonce(ctx, req); err != nil {
		return nil, err
	}

	blinded, err := ParseHex(req.BlindedHex)
	if err != nil {
		issuanceRejected.WithLabelValues("malformed").Inc()
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid_blinded_token_hex")
	}
	material, err := s.keys.Material(ctx, el.RSAKeyID, keys.AlgorithmRSA)
	if err != nil {
		return nil, err
	}
	signed, err := SignBlinded(blinded, material.RSA)
	if err != nil {
		issuanceRejected.WithLabelValues("malformed").Inc()
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "blinded value outside key modulus")
	}

	rec := NewIssuanceRecord(req.VoterID, el.ID, requestcontext.Now(ctx))
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		locked, err := s.elections.GetForShare(ctx, el.ID)
		if err != nil {
			return err
		}
		if !locked.IsOpen() {
			issuanceRejected.WithLabelValues("election_not_open").Inc()
			return dErrors.New(dErrors.CodeElectionNotOpen, "election is not open")
		}
		if err := s.store.Issue(ctx, req.VoterID, el.ID, rec); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record issuance")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			issuanceRejected.WithLabelValues("already_issued").Inc()
			s.report(ctx, audit.ActionDoubleIssuance, el.ID, "")
			s.logger.WarnContext(ctx, "blind sign rejected: credential already issued", "election_id", el.ID)
			return nil, dErrors.Wrap(ErrAlreadyIssued, dErrors.CodeAlreadyIssued, "token already issued for this election")
		}
		return nil, err
	}

	credentialsIssued.Inc()
	s.logger.InfoContext(ctx, "credential issued", "election_id", el.ID, "rsa_key_id", el.RSAKeyID)
	return &SignResult{SignedBlindedHex: FormatHex(signed), RSAKeyID: el.RSAKeyID}, nil
}

func (s *Service) redeemNonce(ctx context.Context, req SignRequest) error {
	if s.nonces == nil {
		return nil
	}
	want, ok, err := s.nonces.Take(ctx, nonce.IssuanceKey(req.VoterID, req.ElectionID))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to redeem challenge")
	}
	if !ok || req.Nonce == "" || subtle.ConstantTimeCompare([]byte(want), []byte(req.Nonce)) != 1 {
		issuanceRejected.WithLabelValues("nonce").Inc()
		return dErrors.New(dErrors.CodeNonceRequired, "issuance challenge missing, expired or wrong")
	}
	return nil
}

// VerifyCredential checks a spend-time credential against the election's signing key.
// The raw token is only hashed here and never persisted.
func (s *Service) VerifyCredential(ctx context.Context, el *models.Election, cred Credential) error {
	if cred.Token == "" || len(cred.Token) > MaxTokenLen {
		verificationFailures.WithLabelValues("malformed").Inc()
		return dErrors.Wrap(ErrMalformedInput, dErrors.CodeValidation, "token must be 1-512 characters")
	}
	if cred.RSAKeyID != "" && cred.RSAKeyID != el.RSAKeyID {
		verificationFailures.WithLabelValues("key_mismatch").Inc()
		s.report(ctx, audit.ActionKeyMismatch, el.ID, "cast_vote")
		return dErrors.Wrap(ErrKeyMismatch, dErrors.CodeKeyMismatch, "credential signed under a different key")
	}
	if len(cred.SignatureHex) < MinSignatureHexLen || len(cred.SignatureHex) > MaxHexLen {
		verificationFailures.WithLabelValues("malformed").Inc()
		return dErrors.Wrap(ErrMalformedInput, dErrors.CodeValidation, "signature must be 64-2048 hex characters")
	}
	sig, err := ParseHex(cred.SignatureHex)
	if err != nil {
		verificationFailures.WithLabelValues("malformed").Inc()
		return dErrors.Wrap(err, dErrors.CodeValidation, "signature is not valid hex")
	}

	material, err := s.keys.Material(ctx, el.RSAKeyID, keys.AlgorithmRSA)
	if err != nil {
		return err
	}
	if !VerifyToken([]byte(cred.Token), sig, material.RSAPublic()) {
		verificationFailures.WithLabelValues("invalid_signature").Inc()
		s.report(ctx, audit.ActionInvalidSignature, el.ID, "")
		return dErrors.Wrap(ErrInvalidSignature, dErrors.CodeInvalidSignature, "invalid signature")
	}
	return nil
}

func (s *Service) report(ctx context.Context, action audit.Action, electionID, reason string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Report(ctx, audit.SecurityEvent{
		Action:     action,
		ElectionID: electionID,
		Reason:     reason,
	})
}
