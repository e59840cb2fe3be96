package middleware

import (
	"io"
	"net/http"

	"logistics-console/internal/logx"
)

// RequireSession rejects requests while no session is active, pointing the
// client at the login screen.
func RequireSession(active func() bool, logger logx.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if active() {
				next.ServeHTTP(w, r)
				return
			}
			logger.Debug("request without session",
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			if _, err := io.WriteString(w, `{"error":"authentication required","redirect":"/login"}`+"\n"); err != nil {
				logger.Debug("session guard response write failed", logx.Err(err))
			}
		})
	}
}
