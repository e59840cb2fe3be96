package schedule

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs deferred work, such as the refetch that follows a successful mutation.
type Scheduler interface {
	// After runs fn once d has elapsed, unless ctx is done first.
	After(ctx context.Context, d time.Duration, fn func())
}

// Timer schedules with real timers.
type Timer struct{}

// After implements Scheduler.
func (Timer) After(ctx context.Context, d time.Duration, fn func()) {
	go func() {
		if sleepWithContext(ctx, d) {
			fn()
		}
	}()
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Manual queues work until Fire is called. Used in tests.
type Manual struct {
	mu      sync.Mutex
	pending []pendingFn
}

type pendingFn struct {
	ctx   context.Context
	delay time.Duration
	fn    func()
}

// After implements Scheduler.
func (m *Manual) After(ctx context.Context, d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, pendingFn{ctx: ctx, delay: d, fn: fn})
}

// Pending returns the delays of queued work.
func (m *Manual) Pending() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, 0, len(m.pending))
	for _, p := range m.pending {
		out = append(out, p.delay)
	}
	return out
}

// Fire runs queued work whose context is still live and returns how many ran.
func (m *Manual) Fire() int {
	m.mu.Lock()
	queued := m.pending
	m.pending = nil
	m.mu.Unlock()

	ran := 0
	for _, p := range queued {
		if p.ctx.Err() != nil {
			continue
		}
		p.fn()
		ran++
	}
	return ran
}
