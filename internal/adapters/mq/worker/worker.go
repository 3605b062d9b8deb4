// Package worker runs queued jobs against the strip, one at a time.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/headlights/internal/domain/model"
	"github.com/okian/headlights/pkg/logger"
)

// ErrStopped is reported to jobs still pending when the worker shuts down.
var ErrStopped = errors.New("worker stopped")

// Job abstracts what workers read off the queue.
type Job = model.Job

// Processor runs a single job to completion.
type Processor interface {
	Process(ctx context.Context, job model.Job) model.Result
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker consumes jobs from a queue.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the worker after the running job finishes. Jobs still
	// pending are answered with ErrStopped.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker is the single consumer of the pending slot. Running one
// worker is what guarantees at most one animation at a time.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	name      string

	busy atomic.Bool

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, processor Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		processor: processor,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Nop(),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		// a stop request wins over a pending job
		select {
		case <-ctx.Done():
			w.drain(ctx, jobs)
			return
		case <-w.shutdown:
			w.drain(ctx, jobs)
			return
		default:
		}

		select {
		case <-ctx.Done():
			w.drain(ctx, jobs)
			return
		case <-w.shutdown:
			w.drain(ctx, jobs)
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.processJob(ctx, job)
		}
	}
}

// Busy reports whether a job is running right now.
func (w *InMemoryWorker) Busy() bool {
	return w.busy.Load()
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one job. Animations are not cancellable once started, so
// the job runs on a context detached from Run's cancellation.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	w.busy.Store(true)
	defer w.busy.Store(false)

	start := time.Now()
	res := w.processor.Process(context.WithoutCancel(ctx), job)
	job.Reply(res)

	if res.Err != nil {
		w.logger.Error(ctx, "job failed",
			logger.String("type", res.Type.String()),
			logger.String("transport", job.Source),
			logger.Error(res.Err),
		)
		return
	}
	w.logger.Debug(ctx, "job done",
		logger.String("type", res.Type.String()),
		logger.String("outcome", res.Outcome.String()),
		logger.Duration("took", time.Since(start)),
	)
}

// drain answers every job still waiting so no producer blocks on Done.
func (w *InMemoryWorker) drain(ctx context.Context, jobs <-chan Job) {
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			job.Reply(model.Result{Type: job.Type, Err: ErrStopped})
			w.logger.Warn(ctx, "dropped pending job on shutdown", logger.String("transport", job.Source))
		default:
			return
		}
	}
}
