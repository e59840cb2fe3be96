package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"logistics-console/internal/gateway/geo"
)

var newRedisClient = geo.NewRedisClient

func connectRedisWithRetry(ctx context.Context, addr string, retries int, delay time.Duration) (*redis.Client, error) {
	var lastErr error
	const attemptTimeout = 2 * time.Second
	for i := 1; i <= retries; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		client, err := newRedisClient(attemptCtx, addr)
		cancel()
		if err == nil {
			return client, nil
		}
		lastErr = err
		if i < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, fmt.Errorf("redis connect failed after %d attempts: %w", retries, lastErr)
}
