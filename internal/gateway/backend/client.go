package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"logistics-console/internal/apperr"
	"logistics-console/internal/logx"
)

const (
	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 8 << 20
)

// TokenSource yields the bearer token of the active session.
type TokenSource interface {
	Token() (string, bool)
}

// Recorder receives per-call outcomes.
type Recorder interface {
	ObserveRequest(endpoint, outcome string)
	AuthExpired()
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, string) {}
func (nopRecorder) AuthExpired()                  {}

// ClientOptFn configures a Client.
type ClientOptFn func(*Client) error

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOptFn {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("%w: nil http client", apperr.ErrInvalid)
		}
		c.http = hc
		return nil
	}
}

// WithTimeout bounds every request; zero disables the per-request deadline.
func WithTimeout(d time.Duration) ClientOptFn {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("%w: negative timeout", apperr.ErrInvalid)
		}
		c.timeout = d
		return nil
	}
}

// WithTokenSource attaches a bearer token to every non-public request.
func WithTokenSource(ts TokenSource) ClientOptFn {
	return func(c *Client) error {
		c.tokens = ts
		return nil
	}
}

// WithAuthExpiredHandler registers the single handler run when the backend
// reports an expired token. The failing call still returns AuthExpired.
func WithAuthExpiredHandler(fn func(context.Context)) ClientOptFn {
	return func(c *Client) error {
		c.onAuthExpired = fn
		return nil
	}
}

// WithLogger sets the client logger.
func WithLogger(l logx.Logger) ClientOptFn {
	return func(c *Client) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) ClientOptFn {
	return func(c *Client) error {
		if r != nil {
			c.recorder = r
		}
		return nil
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) ClientOptFn {
	return func(c *Client) error {
		c.headers.Set(key, value)
		return nil
	}
}

// Client is the typed REST client of the logistics backend.
type Client struct {
	base          *url.URL
	http          *http.Client
	timeout       time.Duration
	tokens        TokenSource
	onAuthExpired func(context.Context)
	logger        logx.Logger
	recorder      Recorder
	headers       http.Header
	newID         func() string
}

// New builds a Client for the backend at baseURL.
func New(baseURL string, opts ...ClientOptFn) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: backend url %q", apperr.ErrInvalid, baseURL)
	}
	c := &Client{
		base:     u,
		http:     &http.Client{},
		logger:   logx.Nop(),
		recorder: nopRecorder{},
		headers:  make(http.Header),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type call struct {
	endpoint string
	method   string
	path     string
	body     any
	public   bool
}

func (c *Client) exchange(ctx context.Context, cl call) ([]byte, *Failure) {
	fail := func(kind FailureKind, status int, msg string, err error) *Failure {
		return &Failure{Kind: kind, Endpoint: cl.endpoint, Status: status, Message: msg, Err: err}
	}

	var payload io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fail(KindTransport, 0, "", fmt.Errorf("encode request: %w", err))
		}
		payload = bytes.NewReader(raw)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.base.String()+cl.path, payload)
	if err != nil {
		return nil, fail(KindTransport, 0, "", fmt.Errorf("build request: %w", err))
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerRequestID, c.newID())
	if !cl.public && c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("backend request cancelled", logx.String("endpoint", cl.endpoint))
		} else {
			c.logger.Warn("backend unreachable",
				logx.String("endpoint", cl.endpoint),
				logx.Duration("elapsed", time.Since(start)),
				logx.Err(err),
			)
		}
		return nil, fail(KindTransport, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fail(KindTransport, resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	c.logger.Debug("backend request",
		logx.String("endpoint", cl.endpoint),
		logx.String("method", cl.method),
		logx.Int("status", resp.StatusCode),
		logx.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.text()

	if resp.StatusCode == http.StatusUnauthorized && msg == AuthExpiredMessage {
		c.recorder.AuthExpired()
		c.logger.Info("backend session expired", logx.String("endpoint", cl.endpoint))
		if c.onAuthExpired != nil {
			c.onAuthExpired(ctx)
		}
		return nil, fail(KindAuthExpired, resp.StatusCode, msg, apperr.ErrUnauthenticated)
	}
	return nil, fail(KindRejected, resp.StatusCode, msg, nil)
}

// fetch runs the call and decodes a 2xx body into B. An empty body yields the zero B.
func fetch[B any](ctx context.Context, c *Client, cl call) (B, *Failure) {
	var out B
	raw, f := c.exchange(ctx, cl)
	if f == nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			f = &Failure{Kind: KindMalformed, Endpoint: cl.endpoint, Status: http.StatusOK, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	c.recorder.ObserveRequest(cl.endpoint, outcomeLabel(f))
	return out, f
}

func outcomeLabel(f *Failure) string {
	if f == nil {
		return "ok"
	}
	return f.Kind.String()
}

func missing(endpoint, what string) *Failure {
	return &Failure{Kind: KindMalformed, Endpoint: endpoint, Status: http.StatusOK, Err: fmt.Errorf("response without %s", what)}
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
