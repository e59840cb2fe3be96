package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"logistics-console/internal/logx"
)

type stubLimiter struct {
	allow bool
	wait  time.Duration
	keys  []string
}

func (s *stubLimiter) Allow(key string) (bool, time.Duration) {
	s.keys = append(s.keys, key)
	return s.allow, s.wait
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, "http://console"+path, nil)
	r.RemoteAddr = "192.0.2.7:51000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMiddleware_AllowedRequestReachesNext(t *testing.T) {
	t.Parallel()

	var calls int
	lim := &stubLimiter{allow: true}
	h := New(logx.Nop(), nil, lim).Handler()(okHandler(&calls))

	w := serve(h, http.MethodGet, "/orders")

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, 1, calls)
	require.Equal(t, []string{"192.0.2.7"}, lim.keys)
}

func TestMiddleware_RefusedRequest(t *testing.T) {
	t.Parallel()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "refused_total", Help: "refused"})
	var calls int
	h := New(logx.Nop(), counter, &stubLimiter{wait: 2300 * time.Millisecond}).Handler()(okHandler(&calls))

	w := serve(h, http.MethodGet, "/carriers")

	require.Equal(t, 0, calls)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "3", w.Header().Get("Retry-After"))
	require.Equal(t, `{"error":"too many requests"}`, w.Body.String())
	require.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestMiddleware_WritesUseTheirOwnLimiter(t *testing.T) {
	t.Parallel()

	reads := &stubLimiter{allow: true}
	writes := &stubLimiter{}
	var calls int
	h := New(logx.Nop(), nil, reads, Writes(writes)).Handler()(okHandler(&calls))

	require.Equal(t, http.StatusNoContent, serve(h, http.MethodGet, "/orders/1").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodPost, "/orders/1/assignment/submit").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodDelete, "/carriers/4").Code)

	require.Equal(t, 1, calls)
	require.Len(t, reads.keys, 1)
	require.Len(t, writes.keys, 2)
}

func TestMiddleware_ExemptPathsSkipLimiter(t *testing.T) {
	t.Parallel()

	var calls int
	h := New(logx.Nop(), nil, &stubLimiter{}, Exempt("/metrics", "/healthcheck")).Handler()(okHandler(&calls))

	require.Equal(t, http.StatusNoContent, serve(h, http.MethodGet, "/metrics").Code)
	require.Equal(t, http.StatusNoContent, serve(h, http.MethodHead, "/healthcheck").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/orders").Code)
	require.Equal(t, 2, calls)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remote string
		want   string
	}{
		{remote: "198.51.100.2:443", want: "198.51.100.2"},
		{remote: "[::1]:8080", want: "::1"},
		{remote: "not-a-hostport", want: "not-a-hostport"},
		{remote: "", want: "unknown"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://console/", nil)
		r.RemoteAddr = tt.remote
		require.Equal(t, tt.want, clientIP(r), tt.remote)
	}
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1", retryAfter(0))
	require.Equal(t, "1", retryAfter(200*time.Millisecond))
	require.Equal(t, "2", retryAfter(1500*time.Millisecond))
}
