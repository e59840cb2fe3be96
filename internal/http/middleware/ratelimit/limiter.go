package ratelimit

import "time"

// Limiter decides whether the caller identified by key may proceed.
// A refused caller learns how long to wait before the next attempt.
type Limiter interface {
	Allow(key string) (ok bool, wait time.Duration)
}

// Unlimited lets every request through.
type Unlimited struct{}

// Allow always returns true.
func (Unlimited) Allow(string) (bool, time.Duration) { return true, 0 }

// Clock returns the current time. A nil Clock means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
