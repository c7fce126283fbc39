package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evote/internal/bulletin"
	"evote/pkg/platform/httputil"
	"evote/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_board.go -destination=mocks/board-mocks.go -package=mocks BoardService
type BoardService interface {
	List(ctx context.Context, electionID, tracker string) (*bulletin.View, error)
	Root(ctx context.Context, electionID string) (string, int, error)
	Lookup(ctx context.Context, electionID string, q bulletin.Query) (*bulletin.Proof, error)
	Receipt(ctx context.Context, electionID, tracker string) (*bulletin.Receipt, error)
}

// BoardHandler exposes the public bulletin board.
type BoardHandler struct {
	board  BoardService
	logger *slog.Logger
}

func NewBoardHandler(svc BoardService, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{board: svc, logger: logger}
}

func (h *BoardHandler) Register(r chi.Router) {
	r.Get("/elections/{electionID}/board", h.handleList)
	r.Get("/elections/{electionID}/board/root", h.handleRoot)
	r.Get("/elections/{electionID}/board/lookup", h.handleLookup)
	r.Get("/elections/{electionID}/receipts/{tracker}", h.handleReceipt)
}

func (h *BoardHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.board.List(ctx, chi.URLParam(r, "electionID"), r.URL.Query().Get("tracker"))
	if err != nil {
		h.fail(ctx, w, "board list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *BoardHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID := chi.URLParam(r, "electionID")
	root, count, err := h.board.Root(ctx, electionID)
	if err != nil {
		h.fail(ctx, w, "board root failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"election_id": electionID,
		"root":        root,
		"count":       count,
	})
}

func (h *BoardHandler) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	proof, err := h.board.Lookup(ctx, chi.URLParam(r, "electionID"), bulletin.Query{
		Tracker:    q.Get("tracker"),
		ScopedHash: q.Get("token_hash"),
	})
	if err != nil {
		h.fail(ctx, w, "board lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, proof)
}

func (h *BoardHandler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.board.Receipt(ctx, chi.URLParam(r, "electionID"), chi.URLParam(r, "tracker"))
	if err != nil {
		h.fail(ctx, w, "receipt lookup failed", err)
		return
	}
	status := http.StatusOK
	if !rec.Found {
		status = http.StatusNotFound
	}
	httputil.WriteJSON(w, status, rec)
}

func (h *BoardHandler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	httputil.WriteError(w, err)
}
