package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Config stores token bucket settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets are dropped after it, 0 keeps them
	MaxBuckets int           // 0 means unbounded
}

// Buckets keeps one token bucket per key.
type Buckets struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	byKey     map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewBuckets normalizes cfg and returns an empty set of buckets.
func NewBuckets(clock Clock, cfg Config) *Buckets {
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &Buckets{cfg: cfg, clock: clock, byKey: make(map[string]*bucket)}
}

// Allow takes a token from the bucket of key.
func (l *Buckets) Allow(key string) (bool, time.Duration) {
	now := l.clock.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now, false)
	b, ok := l.byKey[key]
	if !ok {
		if l.cfg.MaxBuckets > 0 && len(l.byKey) >= l.cfg.MaxBuckets {
			// табличка полна: пробую освободить место до отказа
			l.sweep(now, true)
			if len(l.byKey) >= l.cfg.MaxBuckets {
				return false, l.refill(1)
			}
		}
		b = &bucket{tokens: float64(l.cfg.Burst), last: now}
		l.byKey[key] = b
	}

	if dt := now.Sub(b.last); dt > 0 {
		b.tokens = math.Min(b.tokens+dt.Seconds()*l.cfg.Rate, float64(l.cfg.Burst))
		b.last = now
	}
	if b.tokens < 1 {
		return false, l.refill(1 - b.tokens)
	}
	b.tokens--
	return true, 0
}

// Len returns the number of live buckets.
func (l *Buckets) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// refill returns how long it takes to gain tokens.
func (l *Buckets) refill(tokens float64) time.Duration {
	return time.Duration(math.Ceil(tokens / l.cfg.Rate * float64(time.Second)))
}

// sweep drops idle buckets, at most once per interval unless forced.
// A bucket is idle when its key has not been seen for longer than the TTL.
func (l *Buckets) sweep(now time.Time, force bool) {
	if l.cfg.TTL <= 0 {
		return
	}
	interval := max(time.Minute, l.cfg.TTL/2)
	if !force && !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < interval {
		return
	}
	l.lastSweep = now
	for k, b := range l.byKey {
		if now.Sub(b.last) > l.cfg.TTL {
			delete(l.byKey, k)
		}
	}
}
