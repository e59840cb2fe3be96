package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func withStubRedisClient(t *testing.T, stub func(context.Context, string) (*redis.Client, error)) {
	t.Helper()
	orig := newRedisClient
	newRedisClient = stub
	t.Cleanup(func() { newRedisClient = orig })
}

func TestConnectRedisWithRetry_SuccessAfterFailures(t *testing.T) {
	want := redis.NewClient(&redis.Options{Addr: "stub:6379"})
	t.Cleanup(func() { _ = want.Close() })
	calls := 0

	withStubRedisClient(t, func(context.Context, string) (*redis.Client, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("refused")
		}
		return want, nil
	})

	got, err := connectRedisWithRetry(context.Background(), "stub:6379", 3, time.Millisecond)
	require.NoError(t, err)
	require.Same(t, want, got)
	require.Equal(t, 3, calls)
}

func TestConnectRedisWithRetry_GivesUp(t *testing.T) {
	withStubRedisClient(t, func(context.Context, string) (*redis.Client, error) {
		return nil, errors.New("refused")
	})

	_, err := connectRedisWithRetry(context.Background(), "stub:6379", 2, time.Millisecond)
	require.ErrorContains(t, err, "after 2 attempts")
	require.ErrorContains(t, err, "refused")
}

func TestConnectRedisWithRetry_ContextCanceled(t *testing.T) {
	withStubRedisClient(t, func(context.Context, string) (*redis.Client, error) {
		return nil, errors.New("refused")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := connectRedisWithRetry(ctx, "stub:6379", 5, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}
