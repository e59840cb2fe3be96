package detail

import (
	"context"
	"errors"
	"sync"

	"logistics-console/internal/apperr"
)

// latest runs loads keyed by the entity they show. Loads of different keys
// never interact. When a newer load of the same key starts, the older caller
// still completes but is answered with the newer outcome, so a late response
// never wins. drop abandons every load in flight.
type latest[K comparable, V any] struct {
	mu     sync.Mutex
	flying map[K]*flight[V]
}

type flight[V any] struct {
	cancel  context.CancelFunc
	done    chan struct{}
	next    *flight[V]
	dropped bool

	val V
	err error
}

func (l *latest[K, V]) run(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error) {
	lctx, cancel := context.WithCancel(ctx)
	f := &flight[V]{cancel: cancel, done: make(chan struct{})}

	l.mu.Lock()
	if l.flying == nil {
		l.flying = make(map[K]*flight[V])
	}
	if prev := l.flying[key]; prev != nil {
		prev.next = f
	}
	l.flying[key] = f
	l.mu.Unlock()

	val, err := load(lctx)
	cancel()

	l.mu.Lock()
	next, dropped := f.next, f.dropped
	if l.flying[key] == f {
		delete(l.flying, key)
	}
	l.mu.Unlock()

	switch {
	case dropped:
		var zero V
		val, err = zero, apperr.ErrStale
	case next != nil:
		select {
		case <-next.done:
			// a newer load cancelled by its own caller says nothing about this one
			if !errors.Is(next.err, context.Canceled) {
				val, err = next.val, next.err
			}
		case <-ctx.Done():
			var zero V
			val, err = zero, ctx.Err()
		}
	}
	f.val, f.err = val, err
	close(f.done)
	return val, err
}

// drop cancels every load in flight; their callers get apperr.ErrStale.
func (l *latest[K, V]) drop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, f := range l.flying {
		f.dropped = true
		f.cancel()
		delete(l.flying, k)
	}
}
