package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"evote/internal/ballot"
	"evote/internal/credential"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/httputil"
	"evote/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_ballots.go -destination=mocks/ballots-mocks.go -package=mocks BallotService
type BallotService interface {
	Cast(ctx context.Context, req ballot.CastRequest) (*ballot.Receipt, error)
}

// BallotHandler accepts ballots. The route is unauthenticated: the blind-signed
// credential in the body is the only authorization and no session may be linked to it.
type BallotHandler struct {
	ballots BallotService
	logger  *slog.Logger
}

func NewBallotHandler(svc BallotService, logger *slog.Logger) *BallotHandler {
	return &BallotHandler{ballots: svc, logger: logger}
}

func (h *BallotHandler) Register(r chi.Router) {
	r.Post("/elections/{electionID}/ballots", h.handleCast)
}

type castRequest struct {
	Token        string                  `json:"token"`
	SignatureHex string                  `json:"signature_hex"`
	RSAKeyID     string                  `json:"rsa_key_id"`
	Tracker      string                  `json:"tracker"`
	CandidateID  string                  `json:"candidate_id,omitempty"`
	Ballot       *ballot.EncryptedBallot `json:"ballot,omitempty"`
}

func (req *castRequest) Validate() error {
	req.Tracker = strings.TrimSpace(req.Tracker)
	if req.Token == "" || req.SignatureHex == "" {
		return dErrors.New(dErrors.CodeValidation, "token and signature_hex are required")
	}
	if req.Ballot == nil && req.CandidateID == "" {
		return dErrors.New(dErrors.CodeValidation, "ballot or candidate_id is required")
	}
	if req.Ballot != nil && req.CandidateID != "" {
		return dErrors.New(dErrors.CodeValidation, "send either ballot or candidate_id, not both")
	}
	return nil
}

func (req *castRequest) submission() ballot.Submission {
	if req.Ballot != nil {
		return *req.Ballot
	}
	return ballot.LegacyChoice{CandidateID: req.CandidateID}
}

func (h *BallotHandler) handleCast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[castRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	electionID := chi.URLParam(r, "electionID")
	receipt, err := h.ballots.Cast(ctx, ballot.CastRequest{
		ElectionID: electionID,
		Credential: credential.Credential{
			Token:        req.Token,
			SignatureHex: req.SignatureHex,
			RSAKeyID:     req.RSAKeyID,
		},
		Tracker:    req.Tracker,
		Submission: req.submission(),
	})
	if err != nil {
		// The token never reaches the log.
		h.logger.WarnContext(ctx, "ballot rejected",
			"request_id", requestID,
			"election_id", electionID,
			"code", dErrors.CodeOf(err),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, receipt)
}
