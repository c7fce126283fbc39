// Package ballot accepts ballots: it verifies the credential, resolves the
// submission to ciphertexts, and stores the ballot together with its bulletin board
// leaf in one unit of work.
package ballot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"evote/internal/bulletin"
	"evote/internal/credential"
	"evote/internal/election/models"
	"evote/internal/keys"
	"evote/internal/platform/logger"
	"evote/internal/reuse"
	"evote/internal/tally"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/audit"
	"evote/pkg/platform/sentinel"
	"evote/pkg/platform/tx"
	"evote/pkg/requestcontext"
)

var tracer = otel.Tracer("evote/internal/ballot")

// ElectionReader resolves the target election. GetForShare is called inside the
// unit of work and holds the election row against End and Tally until it commits.
type ElectionReader interface {
	Get(ctx context.Context, id string) (*models.Election, error)
	GetForShare(ctx context.Context, id string) (*models.Election, error)
}

type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, e *models.Election, cred credential.Credential) error
}

type KeyResolver interface {
	Material(ctx context.Context, keyID string, alg keys.Algorithm) (*keys.Material, error)
}

// Store persists ballots. Insert returns sentinel.ErrAlreadyUsed when the scoped
// credential hash was already spent in the election.
type Store interface {
	Insert(ctx context.Context, b *Ballot) error
	ListCiphertexts(ctx context.Context, electionID string) ([][]tally.CiphertextEntry, error)
}

// Board appends the ballot's public leaf.
type Board interface {
	Append(ctx context.Context, electionID, tracker, scopedHash, commitmentHash string) (*bulletin.Entry, error)
}

type AnomalyReporter interface {
	Report(ctx context.Context, ev audit.SecurityEvent)
}

type Service struct {
	elections   ElectionReader
	credentials CredentialVerifier
	keys        KeyResolver
	store       Store
	board       Board
	tx          tx.Runner
	reporter    AnomalyReporter
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithAnomalyReporter(r AnomalyReporter) Option {
	return func(s *Service) { s.reporter = r }
}

func NewService(
	elections ElectionReader,
	credentials CredentialVerifier,
	keys KeyResolver,
	store Store,
	board Board,
	runner tx.Runner,
	opts ...Option,
) *Service {
	s := &Service{
		elections:   elections,
		credentials: credentials,
		keys:        keys,
		store:       store,
		board:       board,
		tx:          runner,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cast verifies and stores a ballot and publishes its leaf. A credential can be
// spent once per election; a second cast is rejected and the first is untouched.
func (s *Service) Cast(ctx context.Context, req CastRequest) (*Receipt, error) {
	ctx, span := tracer.Start(ctx, "ballot.Cast")
	defer span.End()
	span.SetAttributes(attribute.String("election_id", req.ElectionID))

	receipt, kind, err := s.cast(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cast rejected")
		ballotsRejected.WithLabelValues(reason(err)).Inc()
		return nil, err
	}
	ballotsAccepted.WithLabelValues(kind).Inc()
	s.logger.InfoContext(ctx, "ballot accepted",
		"election_id", receipt.ElectionID,
		"position", receipt.Position,
		"kind", kind,
	)
	return receipt, nil
}

func (s *Service) cast(ctx context.Context, req CastRequest) (*Receipt, string, error) {
	if req.Submission == nil {
		return nil, "", dErrors.New(dErrors.CodeValidation, "ballot or candidate_id is required")
	}
	if err := reuse.ValidateTracker(req.Tracker); err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeValidation, "invalid_tracker")
	}
	e, err := s.elections.Get(ctx, req.ElectionID)
	if err != nil {
		return nil, "", err
	}
	if !e.IsOpen() {
		return nil, "", dErrors.New(dErrors.CodeElectionNotOpen, "election is not open")
	}
	if err := s.credentials.VerifyCredential(ctx, e, req.Credential); err != nil {
		return nil, "", err
	}

	entries, keyID, kind, err := s.resolve(ctx, e, req.Submission)
	if err != nil {
		return nil, "", err
	}
	commitment, err := CommitmentHash(tally.Scheme, keyID, entries)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit to ballot")
	}

	b := &Ballot{
		ID:         uuid.New(),
		ElectionID: e.ID,
		ScopedHash: reuse.ScopedCredentialHash(e.ID, req.Credential.Token),
		KeyID:      keyID,
		Entries:    entries,
		CastAt:     requestcontext.Now(ctx).UTC(),
	}

	var leaf *bulletin.Entry
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		locked, err := s.elections.GetForShare(ctx, e.ID)
		if err != nil {
			return err
		}
		if !locked.IsOpen() {
			return dErrors.New(dErrors.CodeElectionNotOpen, "election is not open")
		}
		if err := s.store.Insert(ctx, b); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeAlreadyVoted, "token_already_used")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store ballot")
		}
		leaf, err = s.board.Append(ctx, e.ID, req.Tracker, b.ScopedHash, commitment)
		return err
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeAlreadyVoted) {
			s.report(ctx, audit.ActionReplayRejected, e.ID, "")
			s.logger.WarnContext(ctx, "ballot rejected: credential already spent", "election_id", e.ID)
		}
		return nil, "", err
	}

	return &Receipt{
		ElectionID:     e.ID,
		Tracker:        leaf.Tracker,
		Position:       leaf.Position,
		LeafHash:       leaf.LeafHash,
		CommitmentHash: commitment,
		CastAt:         b.CastAt,
	}, kind, nil
}

// resolve turns either submission kind into validated ciphertexts in ballot order.
func (s *Service) resolve(ctx context.Context, e *models.Election, sub Submission) ([]tally.CiphertextEntry, string, string, error) {
	material, err := s.keys.Material(ctx, e.PaillierKeyID, keys.AlgorithmPaillier)
	if err != nil {
		return nil, "", "", err
	}
	pub := material.PaillierPublic()

	switch v := sub.(type) {
	case LegacyChoice:
		entries, err := tally.EncryptChoice(e.CandidateIDs(), v.CandidateID, pub)
		if err != nil {
			if errors.Is(err, tally.ErrUnknownCandidate) {
				return nil, "", "", dErrors.Wrap(err, dErrors.CodeValidation, "invalid candidate_id")
			}
			return nil, "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to encrypt ballot")
		}
		return entries, e.PaillierKeyID, "legacy", nil

	case EncryptedBallot:
		if v.Scheme != tally.Scheme {
			s.report(ctx, audit.ActionMalformedBallot, e.ID, "unsupported_ballot_scheme")
			return nil, "", "", dErrors.Wrap(ErrUnsupportedScheme, dErrors.CodeValidation, "unsupported_ballot_scheme")
		}
		entries, err := tally.ValidateBallotShape(v.Entries, e.CandidateIDs(), v.KeyID, e.PaillierKeyID, pub)
		if err != nil {
			return nil, "", "", s.shapeError(ctx, e.ID, err)
		}
		return entries, v.KeyID, "encrypted", nil
	}
	return nil, "", "", dErrors.New(dErrors.CodeValidation, "unsupported submission")
}

// shapeError maps structural validation failures to the client error codes.
func (s *Service) shapeError(ctx context.Context, electionID string, err error) error {
	var msg string
	action := audit.ActionMalformedBallot
	switch {
	case errors.Is(err, tally.ErrKeyMismatch):
		msg = "paillier_key_mismatch"
		action = audit.ActionKeyMismatch
	case errors.Is(err, tally.ErrLengthMismatch):
		msg = "ballot_length_mismatch"
	case errors.Is(err, tally.ErrDuplicateCandidate), errors.Is(err, tally.ErrUnknownCandidate):
		msg = "invalid_candidate_in_ballot"
	case errors.Is(err, tally.ErrNotAnInteger):
		msg = "ciphertext_not_integer"
	case errors.Is(err, tally.ErrOutOfRange):
		msg = "ciphertext_out_of_range"
	case errors.Is(err, tally.ErrExponent):
		msg = "unsupported_exponent"
	default:
		msg = "invalid_ballot"
	}
	s.report(ctx, action, electionID, msg)
	code := dErrors.CodeValidation
	if action == audit.ActionKeyMismatch {
		code = dErrors.CodeKeyMismatch
	}
	return dErrors.Wrap(err, code, msg)
}

func (s *Service) report(ctx context.Context, action audit.Action, electionID, reason string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Report(ctx, audit.SecurityEvent{Action: action, ElectionID: electionID, Reason: reason})
}

func reason(err error) string {
	code := dErrors.CodeOf(err)
	if code == "" {
		return "internal"
	}
	return string(code)
}
