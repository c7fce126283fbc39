package httptransport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"evote/pkg/platform/middleware/auth"
	"evote/pkg/requestcontext"
)

var discardLogger = slog.New(slog.DiscardHandler)

type testRequest struct {
	method  string
	path    string
	body    string
	subject string
	role    string
}

// serve runs req through h with the session values the auth middleware would set.
func serve(t *testing.T, h http.Handler, req testRequest) (int, map[string]any) {
	t.Helper()
	var body io.Reader
	if req.body != "" {
		body = strings.NewReader(req.body)
	}
	r := httptest.NewRequest(req.method, req.path, body)
	ctx := requestcontext.WithRequestID(r.Context(), "req-test")
	if req.subject != "" {
		ctx = requestcontext.WithActor(ctx, req.subject, req.role)
		ctx = auth.WithSubject(ctx, req.subject)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r.WithContext(ctx))

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }
