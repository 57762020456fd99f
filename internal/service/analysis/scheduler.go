package analysis

import (
	"context"
	"sync"
	"time"
)

// Job is a unit of background analysis work.
type Job func(ctx context.Context) error

// Handle tracks a scheduled job. Callers that fired-and-forgot can drop it;
// tests and shutdown paths can wait on it or cancel the run.
type Handle struct {
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

// Done is closed once the job finished, successfully or not.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the job error. Only valid after Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the job finishes or the context expires.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel aborts the running job. The pipeline records the failed status on
// its own detached context.
func (h *Handle) Cancel() {
	h.cancel()
}

// Scheduler runs analysis jobs detached from the triggering request. Each job
// gets its own context bounded by the configured timeout, so a hanging model
// call cannot stall a lead at analyzing forever.
type Scheduler struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. A zero timeout means jobs run unbounded.
func NewScheduler(timeout time.Duration) *Scheduler {
	return &Scheduler{timeout: timeout}
}

// Schedule starts the job in the background and returns immediately.
func (s *Scheduler) Schedule(job Job) *Handle {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	handle := &Handle{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		handle.err = job(ctx)
		close(handle.done)
	}()

	return handle
}

// Shutdown waits for in-flight jobs to drain, bounded by the context.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
