package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"logistics-console/internal/logx"
)

func TestRequireSession(t *testing.T) {
	t.Parallel()

	active := false
	calls := 0
	h := RequireSession(func() bool { return active }, logx.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"authentication required","redirect":"/login"}`, rec.Body.String())
	require.Zero(t, calls)

	active = true
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, calls)
}
