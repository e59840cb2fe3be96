package debugserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"logistics-console/internal/service/assignment"
)

func get(h http.Handler, path, remote string, auth ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "http://example"+path, nil)
	req.RemoteAddr = remote
	if len(auth) == 2 {
		req.SetBasicAuth(auth[0], auth[1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Access(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	tests := []struct {
		name   string
		cfg    Config
		remote string
		auth   []string
		want   int
	}{
		{"loopback without creds", Config{Metrics: metrics}, "127.0.0.1:1234", nil, http.StatusTeapot},
		{"ipv6 loopback", Config{Metrics: metrics}, "[::1]:1234", nil, http.StatusTeapot},
		{"remote with nothing configured", Config{Metrics: metrics}, "8.8.8.8:1234", []string{"u", "p"}, http.StatusUnauthorized},
		{"remote with wrong creds", Config{User: "u", Pass: "p", Metrics: metrics}, "8.8.8.8:1234", []string{"u", "x"}, http.StatusUnauthorized},
		{"remote without creds", Config{User: "u", Pass: "p", Metrics: metrics}, "8.8.8.8:1234", nil, http.StatusUnauthorized},
		{"remote with creds", Config{User: "u", Pass: "p", Metrics: metrics}, "8.8.8.8:1234", []string{"u", "p"}, http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(Handler(tt.cfg), "/debug/metrics", tt.remote, tt.auth...)
			require.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusUnauthorized {
				require.Equal(t, realm, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestHandler_Workflows(t *testing.T) {
	t.Parallel()

	h := Handler(Config{Workflows: func() []assignment.Workflow {
		return []assignment.Workflow{{OrderID: 4, State: "awaiting_selection"}}
	}})

	rr := get(h, "/debug/workflows", "127.0.0.1:1")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[{"order_id":4,"state":"awaiting_selection"}]`, rr.Body.String())

	rr = get(Handler(Config{}), "/debug/workflows", "127.0.0.1:1")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFromLoopback(t *testing.T) {
	t.Parallel()

	require.True(t, fromLoopback("127.0.0.1:80"))
	require.True(t, fromLoopback("::1"))
	require.False(t, fromLoopback("10.0.0.1:80"))
	require.False(t, fromLoopback("garbage"))
}
