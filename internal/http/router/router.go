package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"logistics-console/internal/http/handlers"
	mw "logistics-console/internal/http/middleware"
	"logistics-console/internal/http/middleware/ratelimit"
	"logistics-console/internal/logx"
	"logistics-console/internal/metrics"
)

// Params are the dependencies of the dashboard router.
type Params struct {
	dig.In

	Logger      logx.Logger
	Base        *handlers.Handlers
	Session     *handlers.SessionHandler
	Orders      *handlers.OrderHandler
	Carriers    *handlers.CarrierHandler
	Assignments *handlers.AssignmentHandler
	RateLimit   *ratelimit.Middleware `optional:"true"`
	// Active reports whether the console session is signed in.
	Active func() bool `name:"session_active"`
	// Metrics serves /metrics; the default gatherer when nil.
	Metrics http.Handler `name:"metrics_handler" optional:"true"`
	// Requests records served requests; nothing is recorded when nil.
	Requests *metrics.Dashboard `optional:"true"`
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(p Params) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Observability(p.Logger, p.Requests, p.Active))
	r.Use(middleware.Recoverer)
	if p.RateLimit != nil {
		r.Use(p.RateLimit.Handler())
	}
	r.Use(middleware.Timeout(30 * time.Second))

	scrape := p.Metrics
	if scrape == nil {
		scrape = promhttp.Handler()
	}

	r.Get("/ping", p.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(p.Base.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", scrape)

	r.Get("/session", p.Session.Get)
	r.Post("/session/login", p.Session.Login)
	r.Post("/session/register", p.Session.Register)
	r.Delete("/session", p.Session.Logout)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession(p.Active, p.Logger))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", p.Orders.List)
			r.Post("/", p.Orders.Create)
			r.Get("/options", p.Orders.Options)
			r.Post("/refresh", p.Orders.Refresh)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", p.Orders.Get)
				r.Route("/assignment", func(r chi.Router) {
					r.Post("/", p.Assignments.Open)
					r.Get("/", p.Assignments.Get)
					r.Delete("/", p.Assignments.Close)
					r.Put("/selection", p.Assignments.Select)
					r.Post("/submit", p.Assignments.Submit)
					r.Post("/dismiss", p.Assignments.Dismiss)
				})
			})
		})
		r.Get("/tracking/{code}", p.Orders.Track)
		r.Get("/locations/departments", p.Orders.Departments)
		r.Get("/locations/departments/{department}/cities", p.Orders.Cities)
		r.Get("/routes", p.Carriers.Routes)

		r.Route("/carriers", func(r chi.Router) {
			r.Get("/", p.Carriers.List)
			r.Post("/refresh", p.Carriers.Refresh)
			r.Get("/{id}", p.Carriers.Get)
			r.Patch("/{id}/status", p.Carriers.SetStatus)
			r.Delete("/{id}", p.Carriers.Delete)
		})
	})

	r.NotFound(http.HandlerFunc(p.Base.NotFound))

	return r
}
