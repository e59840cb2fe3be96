package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"logistics-console/internal/schedule"
)

func TestTimer_RunsAfterDelay(t *testing.T) {
	done := make(chan struct{})
	schedule.Timer{}.After(context.Background(), 10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled work did not run")
	}
}

func TestTimer_CancelledContextSkips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	schedule.Timer{}.After(ctx, 50*time.Millisecond, func() { ran <- struct{}{} })
	cancel()

	select {
	case <-ran:
		t.Fatal("work ran after cancellation")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestManual_FireSkipsDoneContexts(t *testing.T) {
	var m schedule.Manual
	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	m.After(context.Background(), time.Second, func() { count++ })
	m.After(ctx, 2*time.Second, func() { count += 10 })
	cancel()

	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, m.Pending())
	require.Equal(t, 1, m.Fire())
	require.Equal(t, 1, count)
	require.Empty(t, m.Pending())
}
