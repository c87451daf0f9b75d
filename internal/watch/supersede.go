package watch

import (
	"context"
	"sync"
)

// Job is a unit of work run by Supersede. It should return promptly once
// ctx is cancelled.
type Job[T any] func(ctx context.Context) (T, error)

// Supersede runs at most one job at a time, latest wins. Submitting a job
// cancels the one in flight; the new job starts only after the old one
// returns, and the old job's result is discarded.
type Supersede[T any] struct {
	deliver func(T, error)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// NewSupersede creates a runner that passes each surviving result to
// deliver. deliver is called with the runner's lock held and must not call
// Submit or Close.
func NewSupersede[T any](deliver func(T, error)) *Supersede[T] {
	return &Supersede[T]{deliver: deliver}
}

// Submit schedules job, superseding any pending or running job. It returns
// false once the runner is closed.
func (s *Supersede[T]) Submit(ctx context.Context, job Job[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	jobCtx, cancel := context.WithCancel(ctx)
	prev, done := s.done, make(chan struct{})
	s.cancel, s.done = cancel, done

	go s.run(jobCtx, cancel, s.gen, prev, done, job)
	return true
}

func (s *Supersede[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, prev, done chan struct{}, job Job[T]) {
	defer close(done)
	defer cancel()

	if prev != nil {
		<-prev
	}
	if ctx.Err() != nil {
		return
	}

	v, err := job(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed || ctx.Err() != nil {
		return
	}
	s.deliver(v, err)
}

// Close cancels the current job and waits for every job to return. No
// result is delivered after Close returns.
func (s *Supersede[T]) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}
