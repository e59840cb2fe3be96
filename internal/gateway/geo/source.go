package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"logistics-console/internal/logx"
)

// DefaultDatasetURL is the public Colombian department/city dataset.
const DefaultDatasetURL = "https://raw.githubusercontent.com/marcovega/colombia-json/master/colombia.min.json"

// ErrUnavailable is returned when the dataset cannot be loaded.
var ErrUnavailable = errors.New("geo dataset unavailable")

// Source loads the catalog.
type Source interface {
	Load(ctx context.Context) (Catalog, error)
}

// HTTPSource downloads the dataset.
type HTTPSource struct {
	url    string
	client *http.Client
	logger logx.Logger
}

// NewHTTPSource creates a source for url; an empty url uses DefaultDatasetURL.
func NewHTTPSource(url string, client *http.Client, logger logx.Logger) *HTTPSource {
	if url == "" {
		url = DefaultDatasetURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &HTTPSource{url: url, client: client, logger: logger}
}

// Load implements Source.
func (s *HTTPSource) Load(ctx context.Context) (Catalog, error) {
	raw, err := s.fetch(ctx)
	if err != nil {
		return Catalog{}, err
	}
	return decodeCatalog(raw)
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("geo request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	s.logger.Debug("geo dataset downloaded", logx.Int("bytes", len(raw)))
	return raw, nil
}

func decodeCatalog(raw []byte) (Catalog, error) {
	var deps []Department
	if err := json.Unmarshal(raw, &deps); err != nil {
		return Catalog{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return Catalog{Departments: deps}, nil
}

// Memo loads the catalog from next once and keeps it. A failed load is not
// remembered, so the next call retries.
type Memo struct {
	next Source

	mu     sync.Mutex
	cached *Catalog
}

// NewMemo wraps next.
func NewMemo(next Source) *Memo { return &Memo{next: next} }

// Load implements Source.
func (m *Memo) Load(ctx context.Context) (Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cached != nil {
		return *m.cached, nil
	}
	c, err := m.next.Load(ctx)
	if err != nil {
		return Catalog{}, err
	}
	m.cached = &c
	return c, nil
}
