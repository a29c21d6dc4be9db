package cleanup_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flowgate/oauth2server/internal/cleanup"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RunsTasksUntilStopped(t *testing.T) {
	var runs int64
	sweeper := cleanup.NewSweeper(5*time.Millisecond, func() {
		atomic.AddInt64(&runs, 1)
	})

	sweeper.Start(context.Background())
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&runs) >= 2
	}, time.Second, time.Millisecond)

	sweeper.Stop()
	after := atomic.LoadInt64(&runs)
	time.Sleep(25 * time.Millisecond)
	require.Equal(t, after, atomic.LoadInt64(&runs), "no sweeps after Stop")
}

func TestSweeper_StopIsIdempotent(t *testing.T) {
	sweeper := cleanup.NewSweeper(time.Millisecond, func() {})
	sweeper.Stop() // never started

	sweeper.Start(context.Background())
	sweeper.Stop()
	sweeper.Stop()
}

func TestSweeper_ContextCancelEndsLoop(t *testing.T) {
	var runs int64
	sweeper := cleanup.NewSweeper(time.Millisecond, func() {
		atomic.AddInt64(&runs, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&runs) >= 1
	}, time.Second, time.Millisecond)

	cancel()
	time.Sleep(10 * time.Millisecond)
	after := atomic.LoadInt64(&runs)
	time.Sleep(25 * time.Millisecond)
	require.Equal(t, after, atomic.LoadInt64(&runs))
}
