package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"evote/internal/keys"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/httputil"
	"evote/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_keys.go -destination=mocks/keys-mocks.go -package=mocks KeyService
type KeyService interface {
	ListPublic(ctx context.Context) ([]keys.Record, error)
	Generate(ctx context.Context, req keys.GenerateRequest) (*keys.Record, error)
}

type KeyHandler struct {
	keys   KeyService
	bits   map[keys.Algorithm]int
	logger *slog.Logger
}

// NewKeyHandler serves the public key listing and admin key generation.
// The bit sizes apply when a generate request omits bits.
func NewKeyHandler(svc KeyService, rsaBits, paillierBits int, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		keys: svc,
		bits: map[keys.Algorithm]int{
			keys.AlgorithmRSA:      rsaBits,
			keys.AlgorithmPaillier: paillierBits,
		},
		logger: logger,
	}
}

func (h *KeyHandler) Register(r chi.Router) {
	r.Get("/public-keys", h.handleListPublic)
}

func (h *KeyHandler) RegisterAdmin(r chi.Router) {
	r.Post("/keys", h.handleGenerate)
}

type publicKeyResponse struct {
	KeyID          string    `json:"key_id"`
	Algorithm      string    `json:"algorithm"`
	Modulus        string    `json:"modulus"`
	PublicExponent int       `json:"public_exponent,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toPublicKey(r keys.Record) publicKeyResponse {
	return publicKeyResponse{
		KeyID:          r.ID,
		Algorithm:      string(r.Algorithm),
		Modulus:        r.ModulusDecimal(),
		PublicExponent: r.PublicExponent,
		CreatedAt:      r.CreatedAt,
	}
}

func (h *KeyHandler) handleListPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.keys.ListPublic(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list public keys",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	out := make([]publicKeyResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toPublicKey(rec))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"keys": out})
}

type generateKeyRequest struct {
	Algorithm string `json:"algorithm"`
	Bits      int    `json:"bits"`
	KeyID     string `json:"key_id"`
}

func (req *generateKeyRequest) Validate() error {
	req.Algorithm = strings.ToLower(strings.TrimSpace(req.Algorithm))
	if !keys.Algorithm(req.Algorithm).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "algorithm must be rsa or paillier")
	}
	if req.Bits != 0 && (req.Bits < keys.MinBits(keys.Algorithm(req.Algorithm)) || req.Bits > 8192) {
		return dErrors.New(dErrors.CodeValidation, "bits out of range for algorithm")
	}
	return nil
}

func (h *KeyHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[generateKeyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	bits := req.Bits
	if bits == 0 {
		bits = h.bits[keys.Algorithm(req.Algorithm)]
	}
	rec, err := h.keys.Generate(ctx, keys.GenerateRequest{
		Algorithm: keys.Algorithm(req.Algorithm),
		Bits:      bits,
		KeyID:     req.KeyID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "key generation failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "key generated",
		"request_id", requestID,
		"key_id", rec.ID,
		"algorithm", rec.Algorithm,
	)
	httputil.WriteJSON(w, http.StatusCreated, toPublicKey(*rec))
}
