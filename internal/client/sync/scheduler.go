package sync

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/moneylog/internal/logging"
)

// Runner is the unit of work the Scheduler serializes. *Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, forcePush bool) (Outcome, error)
}

// Scheduler serializes sync passes on a single background worker. Requests
// arriving while a pass is running coalesce: a new request replaces any
// still-pending one rather than queueing behind it, so at most one
// follow-up pass ever accumulates. Running two passes concurrently on one
// device would race on the intent queues and the local store, which have no
// lock of their own.
type Scheduler struct {
	runner  Runner
	log     logging.Logger
	timeout time.Duration

	mu     sync.Mutex
	queued bool
	force  bool

	kick chan struct{}
}

// NewScheduler builds a scheduler with a per-pass wall-clock budget.
// Exceeding the budget is a recoverable failure: the pass aborts and the
// next request retries from scratch.
func NewScheduler(runner Runner, log logging.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		runner:  runner,
		log:     log,
		timeout: timeout,
		kick:    make(chan struct{}, 1),
	}
}

// Start launches the worker; it exits when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

// Schedule requests a pass. Safe from any goroutine; a request made while
// another is pending replaces it.
func (s *Scheduler) Schedule(forcePush bool) {
	s.mu.Lock()
	s.queued = true
	s.force = forcePush
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
			// A kick can race shutdown; do not start a pass on a dead ctx.
			if ctx.Err() != nil {
				return
			}
		}

		for {
			s.mu.Lock()
			if !s.queued {
				s.mu.Unlock()
				break
			}
			force := s.force
			s.queued = false
			s.mu.Unlock()

			runCtx, cancel := context.WithTimeout(ctx, s.timeout)
			outcome, err := s.runner.Run(runCtx, force)
			cancel()

			if err != nil {
				s.log.Warn(ctx, "sync pass failed", "message", outcome.Message, "error", err)
			} else {
				s.log.Info(ctx, "sync pass finished", "message", outcome.Message, "changes", outcome.Changes)
			}

			if ctx.Err() != nil {
				return
			}
		}
	}
}
