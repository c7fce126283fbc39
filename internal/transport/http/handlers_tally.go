package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evote/internal/tally"
	"evote/pkg/platform/httputil"
	"evote/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_tally.go -destination=mocks/tally-mocks.go -package=mocks TallyService
type TallyService interface {
	Tally(ctx context.Context, electionID string) (*tally.Result, error)
	Preview(ctx context.Context, electionID string) (*tally.Result, error)
	Results(ctx context.Context, electionID string) (*tally.Results, error)
}

type TallyHandler struct {
	tally  TallyService
	logger *slog.Logger
}

func NewTallyHandler(svc TallyService, logger *slog.Logger) *TallyHandler {
	return &TallyHandler{tally: svc, logger: logger}
}

// Register mounts the public results read model.
func (h *TallyHandler) Register(r chi.Router) {
	r.Get("/elections/{electionID}/results", h.handleResults)
}

func (h *TallyHandler) RegisterAdmin(r chi.Router) {
	r.Post("/elections/{electionID}/tally", h.handleTally)
	r.Get("/elections/{electionID}/tally/preview", h.handlePreview)
}

func (h *TallyHandler) handleTally(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID := chi.URLParam(r, "electionID")
	res, err := h.tally.Tally(ctx, electionID)
	if err != nil {
		h.logger.WarnContext(ctx, "tally failed",
			"request_id", requestcontext.RequestID(ctx),
			"election_id", electionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "election tallied",
		"request_id", requestcontext.RequestID(ctx),
		"election_id", electionID,
		"ballots", res.BallotCount,
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *TallyHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.tally.Preview(ctx, chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *TallyHandler) handleResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.tally.Results(ctx, chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
