package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/elections/{electionID}/receipts/{tracker}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, tracker := range []string{"0123456789abcdef", "fedcba9876543210"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/elections/e1/receipts/"+tracker, nil))
	}

	got := testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/elections/{electionID}/receipts/{tracker}", "404"))
	assert.Equal(t, float64(2), got)
}

func TestSetBackend(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetBackend("store", "memory")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Backend.WithLabelValues("store", "memory")))
}
