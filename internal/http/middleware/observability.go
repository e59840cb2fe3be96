package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"logistics-console/internal/logx"
	"logistics-console/internal/metrics"
)

// Session labels of a dashboard request.
const (
	SessionActive    = "active"
	SessionAnonymous = "anonymous"
)

// probes and scrapes
var quietRoutes = map[string]struct{}{
	"/ping":        {},
	"/healthcheck": {},
	"/metrics":     {},
}

// Observability logs every dashboard request and records it in m, labelled
// with the route pattern and with the session state the request arrived
// with. A nil m only logs; a nil active counts every request as anonymous.
func Observability(logger logx.Logger, m *metrics.Dashboard, active func() bool) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionAnonymous
			if active != nil && active() {
				session = SessionActive
			}
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			// паттерн, а не путь: id не попадают в метки
			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if m != nil {
				m.ObserveRequest(route, status, session, took)
			}

			fields := []logx.Field{
				logx.String("req_id", chimw.GetReqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("route", route),
				logx.Int("status", status),
				logx.String("session", session),
				logx.Duration("duration", took),
			}
			switch _, quiet := quietRoutes[route]; {
			case quiet:
				logger.Debug("dashboard request", fields...)
			case status >= http.StatusInternalServerError:
				logger.Warn("dashboard request", fields...)
			default:
				logger.Info("dashboard request", fields...)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
