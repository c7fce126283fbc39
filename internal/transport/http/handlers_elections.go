package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"evote/internal/election/models"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/httputil"
	"evote/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_elections.go -destination=mocks/elections-mocks.go -package=mocks ElectionService
type ElectionService interface {
	Create(ctx context.Context, e *models.Election) (*models.Election, error)
	Get(ctx context.Context, id string) (*models.Election, error)
	List(ctx context.Context) ([]*models.Election, error)
	Start(ctx context.Context, id string) (*models.Election, error)
	End(ctx context.Context, id string) (*models.Election, error)
}

type ElectionHandler struct {
	elections ElectionService
	logger    *slog.Logger
}

func NewElectionHandler(svc ElectionService, logger *slog.Logger) *ElectionHandler {
	return &ElectionHandler{elections: svc, logger: logger}
}

func (h *ElectionHandler) Register(r chi.Router) {
	r.Get("/elections", h.handleList)
	r.Get("/elections/{electionID}", h.handleGet)
}

func (h *ElectionHandler) RegisterAdmin(r chi.Router) {
	r.Post("/elections", h.handleCreate)
	r.Post("/elections/{electionID}/start", h.handleStart)
	r.Post("/elections/{electionID}/end", h.handleEnd)
}

type candidateRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createElectionRequest struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Candidates    []candidateRequest `json:"candidates"`
	RSAKeyID      string             `json:"rsa_key_id"`
	PaillierKeyID string             `json:"paillier_key_id"`
}

func (req *createElectionRequest) Validate() error {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if req.ID == "" || req.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "id and name are required")
	}
	if len(req.Candidates) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one candidate is required")
	}
	for i := range req.Candidates {
		req.Candidates[i].ID = strings.TrimSpace(req.Candidates[i].ID)
		if req.Candidates[i].Name == "" {
			req.Candidates[i].Name = req.Candidates[i].ID
		}
	}
	return nil
}

func (req *createElectionRequest) toModel() *models.Election {
	cands := make([]models.Candidate, len(req.Candidates))
	for i, c := range req.Candidates {
		cands[i] = models.Candidate{ID: c.ID, Name: c.Name}
	}
	return &models.Election{
		ID:            req.ID,
		Name:          req.Name,
		Candidates:    cands,
		RSAKeyID:      req.RSAKeyID,
		PaillierKeyID: req.PaillierKeyID,
	}
}

func (h *ElectionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[createElectionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.elections.Create(ctx, req.toModel())
	if err != nil {
		h.logger.WarnContext(ctx, "election create failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *ElectionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.elections.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list elections", "request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	if out == nil {
		out = []*models.Election{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"elections": out})
}

func (h *ElectionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	e, err := h.elections.Get(r.Context(), chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *ElectionHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "start", h.elections.Start)
}

func (h *ElectionHandler) handleEnd(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "end", h.elections.End)
}

func (h *ElectionHandler) transition(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, string) (*models.Election, error)) {
	ctx := r.Context()
	id := chi.URLParam(r, "electionID")
	e, err := fn(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "election "+name+" failed",
			"request_id", requestcontext.RequestID(ctx),
			"election_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}
