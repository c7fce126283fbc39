package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evote/internal/platform/metrics"
	"evote/pkg/platform/httputil"
	"evote/pkg/platform/middleware/admin"
	"evote/pkg/platform/middleware/auth"
	"evote/pkg/platform/middleware/metadata"
	"evote/pkg/platform/middleware/request"
	"evote/pkg/platform/middleware/requesttime"
)

// Handlers groups every route set the router mounts. Nil handlers are skipped.
type Handlers struct {
	Keys        *KeyHandler
	Elections   *ElectionHandler
	Credentials *CredentialHandler
	Ballots     *BallotHandler
	Board       *BoardHandler
	Tally       *TallyHandler
	Audit       *AuditHandler
}

type RouterConfig struct {
	Validator      auth.JWTValidator
	AdminToken     string
	AllowedOrigins []string
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

// NewRouter wires the public, voter, admin and operator route groups.
//
// Ballot casting sits in the public group: a cast must never carry the voter's
// session, or it could be joined to the issuance.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Public
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", request.HeaderRequestID},
			MaxAge:         300,
		}))
		if h.Keys != nil {
			h.Keys.Register(r)
		}
		if h.Elections != nil {
			h.Elections.Register(r)
		}
		if h.Board != nil {
			h.Board.Register(r)
		}
		if h.Tally != nil {
			h.Tally.Register(r)
		}
		if h.Ballots != nil {
			h.Ballots.Register(r)
		}
	})

	// Voter session
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		r.Use(auth.RequireRole("voter", cfg.Logger))
		if h.Credentials != nil {
			h.Credentials.Register(r)
		}
	})

	// Admin session
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		r.Use(auth.RequireRole("admin", cfg.Logger))
		if h.Keys != nil {
			h.Keys.RegisterAdmin(r)
		}
		if h.Elections != nil {
			h.Elections.RegisterAdmin(r)
		}
		if h.Tally != nil {
			h.Tally.RegisterAdmin(r)
		}
	})

	// Operator
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.AdminToken, cfg.Logger))
		if h.Audit != nil {
			h.Audit.Register(r)
		}
	})

	return r
}
