// Package tally aggregates one-hot Paillier ballots per candidate and decrypts only
// the aggregates. The final tally runs under the election row lock so it happens once.
package tally

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"evote/internal/election/models"
	"evote/internal/keys"
	"evote/internal/platform/logger"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/tx"
	"evote/pkg/requestcontext"
)

// Audit actions recorded by the tally.
const (
	ActionTallyElection = "TALLY_ELECTION"
	ActionAuditPreview  = "AUDIT_REPORT_PREVIEW"
)

// DefaultMaxReasonable is the plausibility ceiling for a single candidate total.
const DefaultMaxReasonable = 10000

var tracer = otel.Tracer("evote/internal/tally")

// ElectionStore is the subset of the election registry the tally locks and flags.
type ElectionStore interface {
	FindByID(ctx context.Context, id string) (*models.Election, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Election, error)
	UpdateLifecycle(ctx context.Context, e *models.Election) error
}

// BallotSource yields every accepted ballot of an election.
type BallotSource interface {
	ListCiphertexts(ctx context.Context, electionID string) ([][]CiphertextEntry, error)
}

type KeyResolver interface {
	Material(ctx context.Context, keyID string, alg keys.Algorithm) (*keys.Material, error)
}

// Store persists per-candidate totals. SaveTallies is an idempotent upsert.
type Store interface {
	SaveTallies(ctx context.Context, rows []StoredTally) error
	ListTallies(ctx context.Context, electionID string) ([]StoredTally, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, action string) error
}

type Service struct {
	elections     ElectionStore
	ballots       BallotSource
	keys          KeyResolver
	store         Store
	tx            tx.Runner
	recorder      AuditRecorder
	maxReasonable int64
	logger        *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithMaxReasonable sets the ceiling above which a total is shown as Overflow(n).
func WithMaxReasonable(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxReasonable = n
		}
	}
}

func NewService(elections ElectionStore, ballots BallotSource, keys KeyResolver, store Store, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		elections:     elections,
		ballots:       ballots,
		keys:          keys,
		store:         store,
		tx:            runner,
		maxReasonable: DefaultMaxReasonable,
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tally computes and persists the final result. It refuses when the election has not
// ended or was already tallied; both checks happen under the election row lock.
func (s *Service) Tally(ctx context.Context, electionID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "tally.Tally")
	defer span.End()
	span.SetAttributes(attribute.String("election_id", electionID))
	start := time.Now()

	var res *Result
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.elections.FindByIDForUpdate(ctx, electionID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock election")
		}
		if e == nil {
			return dErrors.New(dErrors.CodeNotFound, "election not found")
		}
		if err := e.CanTally(); err != nil {
			return err
		}

		res, err = s.compute(ctx, e)
		if err != nil {
			return err
		}
		res.Final = true

		stored := make([]StoredTally, len(res.Rows))
		for i, r := range res.Rows {
			stored[i] = StoredTally{
				ElectionID:  e.ID,
				CandidateID: r.CandidateID,
				Total:       r.Total,
				Commitment:  res.Commitments[i],
				ComputedAt:  res.ComputedAt,
			}
		}
		if err := s.store.SaveTallies(ctx, stored); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist tally")
		}
		e.ApplyTally()
		if err := s.elections.UpdateLifecycle(ctx, e); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to flag election as tallied")
		}
		return s.record(ctx, ActionTallyElection)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tally failed")
		return nil, err
	}

	tallyDuration.WithLabelValues("final").Observe(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "tally complete",
		"election_id", electionID,
		"ballots", res.BallotCount,
		"winners", len(res.WinnerIDs),
	)
	return res, nil
}

// Preview aggregates and decrypts without persisting or flagging anything. It is only
// available once voting has closed, so it never exposes partial results.
func (s *Service) Preview(ctx context.Context, electionID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "tally.Preview")
	defer span.End()
	start := time.Now()

	e, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load election")
	}
	if e == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	if !e.Ended {
		return nil, dErrors.New(dErrors.CodeElectionNotEnded, "election has not ended")
	}
	res, err := s.compute(ctx, e)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.record(ctx, ActionAuditPreview); err != nil {
		return nil, err
	}
	tallyDuration.WithLabelValues("preview").Observe(time.Since(start).Seconds())
	return res, nil
}

func (s *Service) compute(ctx context.Context, e *models.Election) (*Result, error) {
	material, err := s.keys.Material(ctx, e.PaillierKeyID, keys.AlgorithmPaillier)
	if err != nil {
		return nil, err
	}
	ballots, err := s.ballots.ListCiphertexts(ctx, e.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ballots")
	}

	ids := e.CandidateIDs()
	combined, err := Aggregate(material.PaillierPublic(), ids, ballots)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate ballots")
	}

	// One decryption per candidate; rows are written by index so no locking is needed.
	counts := make([]Count, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decryptCalls.Inc()
			v, err := DecryptAggregate(combined[id], material.Paillier)
			if err != nil {
				s.logger.ErrorContext(gctx, "aggregate decryption failed", "election_id", e.ID, "candidate_id", id, "error", err)
			}
			counts[i] = Classify(v, err, s.maxReasonable)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "tally cancelled")
	}

	names := e.CandidateNames()
	res := &Result{
		ElectionID:  e.ID,
		Rows:        make([]Row, len(ids)),
		Commitments: make([]Commitment, len(ids)),
		BallotCount: len(ballots),
		ComputedAt:  requestcontext.Now(ctx).UTC(),
	}
	for i, id := range ids {
		if !counts[i].OK() {
			sentinelRows.WithLabelValues(string(counts[i].Status)).Inc()
		}
		res.Rows[i] = Row{CandidateID: id, CandidateName: names[id], Total: counts[i]}
		c, err := NewCommitment(e.ID, id, counts[i])
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit to tally")
		}
		res.Commitments[i] = c
	}
	res.WinnerIDs = Winners(res.Rows)
	return res, nil
}

// Results is the public results view: pending until the tally exists, then final.
func (s *Service) Results(ctx context.Context, electionID string) (*Results, error) {
	e, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load election")
	}
	if e == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	stored, err := s.store.ListTallies(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tally")
	}

	out := &Results{ElectionID: e.ID, WinnerIDs: []string{}}
	if !e.TallyGenerated || len(stored) == 0 {
		out.Status = ResultPending
		out.Candidates = make([]ResultRow, len(e.Candidates))
		for i, c := range e.Candidates {
			out.Candidates[i] = ResultRow{ID: c.ID, Name: c.Name}
		}
		return out, nil
	}

	out.Status = ResultFinal
	names := e.CandidateNames()
	rows := make([]Row, 0, len(stored))
	for _, t := range stored {
		total := t.Total
		computed := t.ComputedAt
		name, ok := names[t.CandidateID]
		if !ok {
			name = t.CandidateID
		}
		out.Candidates = append(out.Candidates, ResultRow{ID: t.CandidateID, Name: name, Total: &total, ComputedAt: &computed})
		rows = append(rows, Row{CandidateID: t.CandidateID, CandidateName: name, Total: total})
		if out.LastUpdated == nil || computed.After(*out.LastUpdated) {
			out.LastUpdated = &computed
		}
	}
	SortResultRows(out.Candidates)
	out.WinnerIDs = Winners(rows)
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
