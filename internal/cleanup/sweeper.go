// Package cleanup runs periodic housekeeping (stale session pruning,
// account-lockout resets) as an explicit scheduled task with a
// cancellation handle, so shutdown is deterministic.
package cleanup

import (
	"context"
	"sync"
	"time"
)

// Task is one housekeeping step. Tasks must tolerate running while
// requests are in flight; everything they touch uses its own locking.
type Task func()

// Sweeper invokes its tasks on a fixed interval until stopped.
type Sweeper struct {
	interval time.Duration
	tasks    []Task

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper creates a sweeper; it does nothing until Start is called.
func NewSweeper(interval time.Duration, tasks ...Task) *Sweeper {
	return &Sweeper{interval: interval, tasks: tasks}
}

// Start launches the sweep loop. The loop ends when the context is
// cancelled or Stop is called. Calling Start on a running sweeper is a
// no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

// Stop cancels the loop and waits for the current sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, task := range s.tasks {
				task()
			}
		}
	}
}
