package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"evote/internal/credential"
	dErrors "evote/pkg/domain-errors"
	"evote/pkg/platform/httputil"
	"evote/pkg/platform/middleware/auth"
	"evote/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_credentials.go -destination=mocks/credentials-mocks.go -package=mocks CredentialService
type CredentialService interface {
	RequestNonce(ctx context.Context, voterID, electionID string) (string, error)
	SignBlinded(ctx context.Context, req credential.SignRequest) (*credential.SignResult, error)
}

// CredentialHandler serves blind credential issuance. Routes sit behind voter auth.
type CredentialHandler struct {
	credentials CredentialService
	logger      *slog.Logger
}

func NewCredentialHandler(svc CredentialService, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{credentials: svc, logger: logger}
}

func (h *CredentialHandler) Register(r chi.Router) {
	r.Post("/elections/{electionID}/nonce", h.handleNonce)
	r.Post("/elections/{electionID}/blind-sign", h.handleBlindSign)
}

func (h *CredentialHandler) handleNonce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID := chi.URLParam(r, "electionID")
	n, err := h.credentials.RequestNonce(ctx, auth.GetSubject(ctx), electionID)
	if err != nil {
		h.logger.WarnContext(ctx, "nonce request failed",
			"request_id", requestcontext.RequestID(ctx),
			"election_id", electionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"nonce": n})
}

type blindSignRequest struct {
	BlindedTokenHex string `json:"blinded_token_hex"`
	RSAKeyID        string `json:"rsa_key_id"`
	Nonce           string `json:"nonce"`
}

func (req *blindSignRequest) Validate() error {
	req.BlindedTokenHex = strings.TrimSpace(req.BlindedTokenHex)
	req.RSAKeyID = strings.TrimSpace(req.RSAKeyID)
	if req.BlindedTokenHex == "" || req.RSAKeyID == "" {
		return dErrors.New(dErrors.CodeValidation, "blinded_token_hex and rsa_key_id are required")
	}
	return nil
}

func (h *CredentialHandler) handleBlindSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[blindSignRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	electionID := chi.URLParam(r, "electionID")
	res, err := h.credentials.SignBlinded(ctx, credential.SignRequest{
		VoterID:    auth.GetSubject(ctx),
		ElectionID: electionID,
		RSAKeyID:   req.RSAKeyID,
		BlindedHex: req.BlindedTokenHex,
		Nonce:      req.Nonce,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "blind sign rejected",
			"request_id", requestID,
			"election_id", electionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
