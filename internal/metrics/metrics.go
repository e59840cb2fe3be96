package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// Backend counts calls made to the logistics backend.
type Backend struct {
	Requests    *prometheus.CounterVec
	AuthExpires prometheus.Counter
}

// NewBackend creates the backend call counters.
func NewBackend() *Backend {
	return &Backend{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of backend calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		AuthExpires: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backend_auth_expired_total",
			Help: "Total number of backend responses reporting an expired session",
		}),
	}
}

// ObserveRequest records one backend call.
func (b *Backend) ObserveRequest(endpoint, outcome string) {
	b.Requests.WithLabelValues(endpoint, outcome).Inc()
}

// AuthExpired records one expired-session response.
func (b *Backend) AuthExpired() { b.AuthExpires.Inc() }

// Collectors returns the collectors to register.
func (b *Backend) Collectors() []prometheus.Collector {
	return []prometheus.Collector{b.Requests, b.AuthExpires}
}

// Assignment counts assignment submissions by result.
type Assignment struct {
	Submissions *prometheus.CounterVec
}

// NewAssignment creates the assignment workflow counters.
func NewAssignment() *Assignment {
	return &Assignment{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assignment_submissions_total",
			Help: "Total number of assignment submissions by result",
		}, []string{"result"}),
	}
}

// Submitted records one submission with result "success", "failed" or "auth_expired".
func (a *Assignment) Submitted(result string) {
	a.Submissions.WithLabelValues(result).Inc()
}

// Dashboard measures the requests served by the local dashboard.
type Dashboard struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewDashboard creates the dashboard request metrics. Requests are labelled
// by route pattern, status class and whether a console session was signed in.
func NewDashboard() *Dashboard {
	return &Dashboard{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Total number of dashboard requests by route, status class and session state",
		}, []string{"route", "class", "session"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_request_duration_seconds",
			Help:    "Duration of dashboard requests by route and session state.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "session"}),
	}
}

// ObserveRequest records one served request.
func (d *Dashboard) ObserveRequest(route string, status int, session string, took time.Duration) {
	d.Requests.WithLabelValues(route, StatusClass(status), session).Inc()
	d.Latency.WithLabelValues(route, session).Observe(took.Seconds())
}

// Collectors returns the collectors to register.
func (d *Dashboard) Collectors() []prometheus.Collector {
	return []prometheus.Collector{d.Requests, d.Latency}
}

// StatusClass folds a status code into "2xx", "4xx" and so on.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}
