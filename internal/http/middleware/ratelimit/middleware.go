package ratelimit

import (
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"logistics-console/internal/logx"
)

// Middleware ограничивает частоту запросов к дашборду по IP клиента.
// Запросы, меняющие данные в бэкенде, считаются отдельно.
type Middleware struct {
	logger  logx.Logger        // логгер
	counter prometheus.Counter // счетчик отказов
	reads   Limiter            // GET и HEAD
	writes  Limiter            // остальные методы
	exempt  map[string]struct{}
}

// Option configures a Middleware.
type Option func(*Middleware)

// Exempt lets requests to paths bypass the limiter.
func Exempt(paths ...string) Option {
	return func(m *Middleware) {
		for _, p := range paths {
			m.exempt[p] = struct{}{}
		}
	}
}

// Writes sets a separate limiter for mutating requests.
func Writes(l Limiter) Option {
	return func(m *Middleware) {
		if l != nil {
			m.writes = l
		}
	}
}

// New создает Middleware; без опции Writes записи делят лимит с чтением.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter, opts ...Option) *Middleware {
	if limiter == nil {
		limiter = Unlimited{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	m := &Middleware{
		logger:  logger,
		counter: counter,
		reads:   limiter,
		writes:  limiter,
		exempt:  map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := m.exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			ip := clientIP(r)
			class, limiter := "read", m.reads
			if mutating(r.Method) {
				class, limiter = "write", m.writes
			}

			ok, wait := limiter.Allow(ip)
			if ok {
				next.ServeHTTP(w, r)
				return
			}
			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("ip", ip),
				logx.String("class", class),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
				logx.Duration("retry_after", wait),
			)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", retryAfter(wait))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
				// клиент мог оборвать соединение
				m.logger.Debug("rate limit response write failed", logx.String("ip", ip), logx.Err(err))
			}
		})
	}
}

func mutating(method string) bool {
	return method != http.MethodGet && method != http.MethodHead && method != http.MethodOptions
}

// retryAfter renders wait in whole seconds, at least one.
func retryAfter(wait time.Duration) string {
	s := int(math.Ceil(wait.Seconds()))
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
