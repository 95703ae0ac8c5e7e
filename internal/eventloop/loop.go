// Package eventloop provides the single-threaded task queue that drives
// layout callbacks. Tasks run one at a time on the goroutine calling Run or
// RunPending; Post is safe from any goroutine.
package eventloop

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

type task struct {
	fn        func()
	cancelled atomic.Bool
}

// Loop is a cooperative FIFO of deferred callbacks.
type Loop struct {
	mu     sync.Mutex
	logger *slog.Logger
	queue  []*task
	wake   chan struct{}
}

// New creates an empty loop.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Post queues fn to run after the current task completes. The returned
// function cancels fn if it has not started yet; calling it more than once
// is harmless.
func (l *Loop) Post(fn func()) (cancel func()) {
	t := &task{fn: fn}

	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return func() { t.cancelled.Store(true) }
}

// Pending returns the number of queued tasks, including cancelled ones not yet discarded.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// RunPending runs every task queued before the call and returns how many ran.
// Tasks posted while draining wait for the next call.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	ran := 0
	for _, t := range batch {
		if t.cancelled.Load() {
			continue
		}
		l.runTask(t)
		ran++
	}
	return ran
}

// Run drains the queue until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) runTask(t *task) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop task panicked", "panic", r)
		}
	}()
	t.fn()
}
