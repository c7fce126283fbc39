// Package admin guards operator endpoints (chain audit, anomaly reports)
// with a static token. The configured value may be the token or its bcrypt hash.
package admin

import (
	"log/slog"
	"net/http"

	"evote/pkg/platform/secrets"
	"evote/pkg/requestcontext"
)

const HeaderAdminToken = "X-Admin-Token"

func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderAdminToken)
			if !secrets.Matches(token, expectedToken) {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}
			ctx := r.Context()
			if requestcontext.Actor(ctx) == "" {
				ctx = requestcontext.WithActor(ctx, "operator", "admin")
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
