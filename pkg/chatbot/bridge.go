package chatbot

import (
	"context"
	"sync"

	"github.com/saberchat/saber/internal/log"
)

// bridge runs units of work on a single persistent worker goroutine owned by
// the controller. It exists so the rest of the controller can stay synchronous
// while the underlying agent call is context-driven and cancellable.
//
// The worker and its base context are created on first use and re-created if
// the bridge is used again after Close. Close cancels any in-flight work and
// is safe to call multiple times.
type bridge struct {
	logger log.Logger

	mu     sync.Mutex
	jobs   chan func()
	base   context.Context
	cancel context.CancelFunc
	done   chan struct{}
	busy   bool
	closed bool
}

func newBridge(logger log.Logger) *bridge {
	return &bridge{logger: logger}
}

// ensureLocked starts the worker if it has never run or was closed.
// Callers must hold b.mu.
func (b *bridge) ensureLocked() {
	if b.jobs != nil && !b.closed {
		return
	}

	b.base, b.cancel = context.WithCancel(context.Background())
	b.jobs = make(chan func())
	b.done = make(chan struct{})
	b.closed = false

	go b.run(b.base, b.jobs, b.done)
}

// run is the worker loop. It executes submitted jobs until the base context
// is cancelled.
func (b *bridge) run(base context.Context, jobs chan func(), done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-base.Done():
			return
		case fn := <-jobs:
			fn()
		}
	}
}

// Do runs fn on the worker goroutine and blocks until it finishes. The
// context passed to fn is cancelled when either the caller's ctx or the
// bridge is closed, and cancellation is reported to the caller as the
// context error so it stays distinguishable from ordinary failures.
//
// A Do issued while the worker is already driving other work returns
// ErrBridgeBusy; reentrant calls are not supported.
func (b *bridge) Do(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.ensureLocked()
	if b.busy {
		b.mu.Unlock()
		return nil, ErrBridgeBusy
	}
	b.busy = true
	jobs, base := b.jobs, b.base
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.busy = false
		b.mu.Unlock()
	}()

	jobCtx, jobCancel := context.WithCancel(ctx)
	defer jobCancel()

	stop := context.AfterFunc(base, jobCancel)
	defer stop()

	type result struct {
		value any
		err   error
	}

	// Buffered so the worker can always deliver, even if the caller has
	// already given up on a cancelled job.
	res := make(chan result, 1)

	job := func() {
		value, err := fn(jobCtx)
		res <- result{value: value, err: err}
	}

	select {
	case jobs <- job:
	case <-jobCtx.Done():
		return nil, jobCtx.Err()
	}

	select {
	case r := <-res:
		if r.err != nil {
			b.logger.Error("bridge: job failed", "error", r.err)
		}
		return r.value, r.err
	case <-jobCtx.Done():
		b.logger.Warn("bridge: job cancelled", "error", jobCtx.Err())
		return nil, jobCtx.Err()
	}
}

// Close cancels any in-flight work, stops the worker, and waits for it to
// exit. It is idempotent; a later Do starts a fresh worker.
func (b *bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.jobs == nil || b.closed {
		return nil
	}

	b.closed = true
	b.cancel()
	<-b.done

	return nil
}
