// Package requesttime pins one "now" per HTTP request so audit entries, board
// leaves and issuance records written by that request share a timestamp.
package requesttime

import (
	"net/http"
	"time"

	"evote/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
