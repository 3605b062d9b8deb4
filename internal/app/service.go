// Package service wires the dispatcher behind the pending slot and exposes
// the operations the transports need.
package service

import (
	"context"
	"fmt"
	"sync"

	eventqueue "github.com/okian/headlights/internal/adapters/mq/queue"
	"github.com/okian/headlights/internal/adapters/mq/worker"
	"github.com/okian/headlights/internal/domain/classify"
	"github.com/okian/headlights/internal/domain/dedupe"
	"github.com/okian/headlights/internal/domain/model"
	"github.com/okian/headlights/internal/events"
	"github.com/okian/headlights/pkg/logger"
	"github.com/okian/headlights/pkg/metrics"
)

// Service owns the pending slot and the single strip worker. Every transport
// submits through it, so at most one animation runs and at most queueSize
// more wait.
type Service struct {
	mu sync.RWMutex

	dispatcher *Dispatcher
	deduper    dedupe.Deduper
	queue      eventqueue.Queue
	worker     *worker.InMemoryWorker
	bus        *events.Bus
	stats      *Stats

	queueSize  int
	dedupeSize int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets how many animations may wait behind the running one.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many message IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithEventBus shares a bus with the dispatcher and other subscribers.
func WithEventBus(b *events.Bus) Option {
	return func(s *Service) {
		if b != nil {
			s.bus = b
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service around d.
func New(d *Dispatcher, opts ...Option) *Service {
	s := &Service{
		dispatcher: d,
		queueSize:  eventqueue.DefaultCapacity,
		dedupeSize: dedupe.DefaultMaxSize,
		logger:     logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.bus == nil {
		s.bus = events.New()
	}
	if d.bus == nil {
		d.bus = s.bus
	}
	s.stats = NewStats(s.bus)

	return s
}

// Start creates the queue and starts the worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, s.dispatcher,
		worker.WithName("strip-worker"),
		worker.WithLogger(s.logger),
	)
	go s.worker.Run(ctx)

	s.started = true
	s.logger.Info(ctx, "headlights service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop refuses new work and waits, bounded by ctx, for the running animation.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	_ = s.queue.Close()
	err := s.worker.Shutdown(ctx)

	s.logger.Info(ctx, "headlights service stopped")
	return err
}

// Submit queues job without waiting for it. It returns ErrBusy when the
// pending slot is taken.
func (s *Service) Submit(ctx context.Context, job model.Job) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}

	metrics.RecordEventReceived(job.Source)
	if !s.queue.Enqueue(ctx, job) {
		metrics.RecordEventDropped(events.ReasonBusy)
		s.bus.Publish(events.Dropped{Event: job.Type, Reason: events.ReasonBusy, Source: job.Source})
		s.logger.Debug(ctx, "strip busy, dropping event", logger.String("transport", job.Source))
		return ErrBusy
	}
	return nil
}

// Dispatch queues job and waits until it ran or was dropped. The returned
// error is ErrBusy, ctx's error, or the animation failure.
func (s *Service) Dispatch(ctx context.Context, job model.Job) (model.Result, error) {
	done := make(chan model.Result, 1)
	job.Done = done
	if err := s.Submit(ctx, job); err != nil {
		return model.Result{Type: job.Type}, err
	}

	select {
	case res := <-done:
		return res, res.Err
	case <-ctx.Done():
		return model.Result{Type: job.Type}, ctx.Err()
	}
}

// FireNamed queues the event called name ("calendar", "error", ...),
// bypassing the directional classifier.
func (s *Service) FireNamed(ctx context.Context, name, source string) (model.EventType, error) {
	t := classify.ParseEventType(name)
	if !t.Known() {
		return t, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	return t, s.Submit(ctx, model.Job{Type: t, Source: source})
}

// SeenAndRecord atomically checks if a message id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	s.mu.RLock()
	d := s.deduper
	s.mu.RUnlock()
	if d == nil {
		return false
	}

	seen := d.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDropped(events.ReasonDuplicate)
		s.bus.Publish(events.Dropped{Reason: events.ReasonDuplicate})
	}
	return seen
}

// Unrecord forgets a message id so a redelivery is handled again.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.mu.RLock()
	d := s.deduper
	s.mu.RUnlock()
	if d != nil {
		d.Unrecord(ctx, id)
	}
}

// Stats returns the outcome counters.
func (s *Service) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
		"outcomes":   s.stats.Snapshot(),
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(context.Background())
		stats["busy"] = s.worker.Busy()
		stats["dedupeEntries"] = s.deduper.Size()
	}

	return stats
}
