package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"evote/internal/auditchain"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/audit"
	"evote/pkg/platform/httputil"
	"evote/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_audit.go -destination=mocks/audit-mocks.go -package=mocks AuditChainService,ChainChecker,AnomalyReader
type AuditChainService interface {
	List(ctx context.Context, afterID int64, limit int) ([]auditchain.Entry, error)
}

// ChainChecker verifies the stored chain and raises the throttled integrity alert.
type ChainChecker interface {
	Check(ctx context.Context) (bool, error)
	LastReport() *auditchain.Report
}

type AnomalyReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.SecurityEvent, error)
	ListByAction(ctx context.Context, action audit.Action) ([]audit.SecurityEvent, error)
}

// AuditHandler serves operator endpoints behind the admin token.
type AuditHandler struct {
	chain     AuditChainService
	checker   ChainChecker
	anomalies AnomalyReader
	logger    *slog.Logger
}

func NewAuditHandler(chain AuditChainService, checker ChainChecker, anomalies AnomalyReader, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{chain: chain, checker: checker, anomalies: anomalies, logger: logger}
}

func (h *AuditHandler) Register(r chi.Router) {
	r.Get("/internal/audit-log", h.handleList)
	r.Get("/internal/chain-audit", h.handleChainAudit)
	r.Get("/internal/anomalies", h.handleAnomalies)
}

func (h *AuditHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	after, err := queryInt(r, "after", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.chain.List(ctx, int64(after), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []auditchain.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type chainAuditResponse struct {
	*auditchain.Report
	AlertSent bool `json:"alert_sent"`
}

func (h *AuditHandler) handleChainAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sent, err := h.checker.Check(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "chain audit failed", "request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	report := h.checker.LastReport()
	if report == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "no chain report"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, chainAuditResponse{Report: report, AlertSent: sent})
}

func (h *AuditHandler) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		events []audit.SecurityEvent
		err    error
	)
	if action := r.URL.Query().Get("action"); action != "" {
		events, err = h.anomalies.ListByAction(ctx, audit.Action(action))
	} else {
		limit, perr := queryInt(r, "limit", 100)
		if perr != nil {
			httputil.WriteError(w, perr)
			return
		}
		events, err = h.anomalies.ListRecent(ctx, limit)
	}
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list anomalies"))
		return
	}
	if events == nil {
		events = []audit.SecurityEvent{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}
