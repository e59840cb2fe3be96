// Package debugserver serves profiling and diagnostics of a running dashboard.
package debugserver

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/http/pprof"

	json "github.com/goccy/go-json"

	"logistics-console/internal/service/assignment"
)

const realm = `Basic realm="logistics-console debug"`

// Config stores debug server settings.
type Config struct {
	User string
	Pass string
	// Metrics is served at /debug/metrics when set.
	Metrics http.Handler
	// Workflows lists the open assignment workflows at /debug/workflows.
	Workflows func() []assignment.Workflow
}

// Handler returns the debug endpoints. Loopback clients are let through,
// remote ones need the configured basic auth credentials.
func Handler(cfg Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)

	if cfg.Metrics != nil {
		mux.Handle("/debug/metrics", cfg.Metrics)
	}
	if cfg.Workflows != nil {
		mux.HandleFunc("/debug/workflows", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(cfg.Workflows())
		})
	}
	return guard(mux, cfg.User, cfg.Pass)
}

func guard(next http.Handler, user, pass string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fromLoopback(r.RemoteAddr) || credentialsMatch(r, user, pass) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("WWW-Authenticate", realm)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// credentialsMatch is false when no credentials are configured.
func credentialsMatch(r *http.Request, user, pass string) bool {
	if user == "" || pass == "" {
		return false
	}
	u, p, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(p), []byte(pass)) == 1
	return userOK && passOK
}

func fromLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
