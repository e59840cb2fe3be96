package listing

import (
	"context"
	"fmt"
	"sync"

	"logistics-console/internal/apperr"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
)

// Fetcher loads a full collection from the backend.
type Fetcher[T any] func(ctx context.Context) backend.Result[[]T]

// ListView fetches a collection once, then filters and paginates it locally.
// A response that arrives after a newer fetch started is discarded and its
// caller is answered with the newer outcome; one that arrives after
// Invalidate fails with apperr.ErrStale.
type ListView[T any] struct {
	name     string
	fallback string
	fetch    Fetcher[T]
	logger   logx.Logger

	mu      sync.Mutex
	items   []T
	loaded  bool
	loading bool
	flying  *round
	page    int
	size    int
	errMsg  string
}

// NewListView creates a view; fallback is shown when a fetch fails without a backend message.
func NewListView[T any](name, fallback string, fetch Fetcher[T], logger logx.Logger) *ListView[T] {
	if logger == nil {
		logger = logx.Nop()
	}
	return &ListView[T]{
		name:     name,
		fallback: fallback,
		fetch:    fetch,
		logger:   logger.With(logx.String("view", name)),
		page:     1,
		size:     DefaultPageSize,
	}
}

// Load fetches the collection unless it is already loaded.
func (v *ListView[T]) Load(ctx context.Context) error {
	v.mu.Lock()
	loaded := v.loaded
	v.mu.Unlock()
	if loaded {
		return nil
	}
	return v.Refresh(ctx)
}

// round is one fetch; next is the fetch that superseded it.
type round struct {
	cancel  context.CancelFunc
	done    chan struct{}
	next    *round
	dropped bool
	err     error
}

// Refresh re-fetches the collection. Only the newest fetch updates the view.
func (v *ListView[T]) Refresh(ctx context.Context) error {
	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r := &round{cancel: cancel, done: make(chan struct{})}

	v.mu.Lock()
	if v.flying != nil {
		v.flying.next = r
	}
	v.flying = r
	v.loading = true
	v.mu.Unlock()

	res := v.fetch(fctx)

	v.mu.Lock()
	next, dropped := r.next, r.dropped
	if v.flying == r {
		v.flying = nil
		v.loading = false
	}
	if next == nil && !dropped {
		r.err = v.applyLocked(res)
	}
	v.mu.Unlock()

	switch {
	case dropped:
		r.err = fmt.Errorf("refresh %s: %w", v.name, apperr.ErrStale)
	case next != nil:
		v.logger.Debug("superseded list response discarded")
		select {
		case <-next.done:
			r.err = next.err
		case <-ctx.Done():
			r.err = ctx.Err()
		}
	}
	close(r.done)
	return r.err
}

func (v *ListView[T]) applyLocked(res backend.Result[[]T]) error {
	switch res.Outcome() {
	case backend.OutcomeOK:
		v.items = res.Value()
		v.loaded = true
		v.errMsg = ""
		v.logger.Debug("list loaded", logx.Int("count", len(v.items)))
		return nil
	case backend.OutcomeAuthExpired:
		v.items = nil
		v.loaded = false
		v.errMsg = ""
	default:
		v.errMsg = res.Message(v.fallback)
		v.logger.Warn("list fetch failed", logx.Err(res.Err()))
	}
	return fmt.Errorf("refresh %s: %w", v.name, res.Err())
}

// Invalidate drops the fetch in flight, as when the view goes away.
func (v *ListView[T]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.flying != nil {
		v.flying.dropped = true
		v.flying.cancel()
		v.flying = nil
	}
	v.loading = false
}

// Reset forgets the loaded collection and the cursor.
func (v *ListView[T]) Reset() {
	v.Invalidate()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = nil
	v.loaded = false
	v.errMsg = ""
	v.page = 1
}

// SetPageSize changes the page size and returns to page 1.
func (v *ListView[T]) SetPageSize(n int) error {
	if err := ValidatePageSize(n); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.size = n
	v.page = 1
	return nil
}

// GoTo moves the cursor; the page is clamped when the view is evaluated.
func (v *ListView[T]) GoTo(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = page
}

// View filters the loaded items with match and returns the page under the
// cursor. A nil match keeps everything.
func (v *ListView[T]) View(match func(T) bool) Page[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := Paginate(v.filterLocked(match), v.page, v.size)
	v.page = p.Number
	return p
}

// Slice is View for a caller that keeps its own page and size; the cursor is
// left alone, so concurrent callers do not see each other's paging.
func (v *ListView[T]) Slice(match func(T) bool, page, size int) Page[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Paginate(v.filterLocked(match), page, size)
}

func (v *ListView[T]) filterLocked(match func(T) bool) []T {
	if match == nil {
		return v.items
	}
	out := make([]T, 0, len(v.items))
	for _, it := range v.items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Items returns the loaded collection.
func (v *ListView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.items...)
}

// Status reports the load flags and the last inline error.
func (v *ListView[T]) Status() (loaded, loading bool, errMsg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded, v.loading, v.errMsg
}
