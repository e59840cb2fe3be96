package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"logistics-console/internal/logx"
	"logistics-console/internal/metrics"
	testlog "logistics-console/internal/testutil"
)

func TestObservability_LabelsRoutePatternAndSession(t *testing.T) {
	t.Parallel()

	m := metrics.NewDashboard()
	var signedIn atomic.Bool
	r := chi.NewRouter()
	r.Use(Observability(logx.Nop(), m, signedIn.Load))
	r.Get("/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/123", nil))
	signedIn.Store(true)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/124", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/125", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/orders/{id}", "2xx", SessionAnonymous)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/orders/{id}", "2xx", SessionActive)))
	require.Equal(t, 2, testutil.CollectAndCount(m.Latency))
}

func TestObservability_LogLevels(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := chi.NewRouter()
	r.Use(Observability(rec.Logger(), nil, func() bool { return true }))
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/orders", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/carriers", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) })

	for _, path := range []string{"/ping", "/orders", "/carriers"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, rec.Find("debug", "dashboard request"), 1)
	info := rec.Find("info", "dashboard request")
	require.Len(t, info, 1)
	route, ok := info[0].Field("route")
	require.True(t, ok)
	require.Equal(t, "/orders", route)
	session, ok := info[0].Field("session")
	require.True(t, ok)
	require.Equal(t, SessionActive, session)

	warn := rec.Find("warn", "dashboard request")
	require.Len(t, warn, 1)
	status, ok := warn[0].Field("status")
	require.True(t, ok)
	require.EqualValues(t, http.StatusBadGateway, status)
}
