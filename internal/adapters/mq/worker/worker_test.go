package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/headlights/internal/adapters/mq/queue"
	worker "github.com/okian/headlights/internal/adapters/mq/worker"
	model "github.com/okian/headlights/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

// mockProcessor records jobs and can hold each one until released.
type mockProcessor struct {
	mu      sync.Mutex
	seen    []model.EventType
	err     error
	started chan struct{}
	release chan struct{}
}

func newMockProcessor() *mockProcessor {
	return &mockProcessor{started: make(chan struct{}, 10)}
}

func (p *mockProcessor) Process(ctx context.Context, job model.Job) model.Result {
	p.started <- struct{}{}
	if p.release != nil {
		<-p.release
	}
	p.mu.Lock()
	p.seen = append(p.seen, job.Type)
	p.mu.Unlock()
	return model.Result{Type: job.Type, Outcome: model.Fired, Err: p.err}
}

func (p *mockProcessor) processed() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, len(p.seen))
	copy(out, p.seen)
	return out
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker on a depth-1 queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		p := newMockProcessor()
		w := worker.NewInMemoryWorker(q, p, worker.WithName("strip"))
		go w.Run(ctx)
		defer func() { _ = w.Shutdown(ctx) }()

		convey.Convey("When a job with a done channel is enqueued", func() {
			done := make(chan model.Result, 1)
			convey.So(q.Enqueue(ctx, model.Job{Type: model.HomeToWork, Done: done}), convey.ShouldBeTrue)

			convey.Convey("Then its result is delivered", func() {
				select {
				case res := <-done:
					convey.So(res.Type, convey.ShouldEqual, model.HomeToWork)
					convey.So(res.Outcome, convey.ShouldEqual, model.Fired)
					convey.So(res.Err, convey.ShouldBeNil)
				case <-time.After(time.Second):
					convey.So("timeout", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When the processor fails", func() {
			p.err = errors.New("commit failed")
			done := make(chan model.Result, 1)
			q.Enqueue(ctx, model.Job{Type: model.Error, Done: done})

			convey.Convey("Then the error reaches the producer", func() {
				res := <-done
				convey.So(res.Err, convey.ShouldNotBeNil)
				convey.So(res.Err.Error(), convey.ShouldEqual, "commit failed")
			})
		})
	})

	convey.Convey("Given a worker busy with a long animation", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		p := newMockProcessor()
		p.release = make(chan struct{})
		w := worker.NewInMemoryWorker(q, p)
		go w.Run(ctx)

		convey.So(q.Enqueue(ctx, model.Job{Type: model.HomeToWork}), convey.ShouldBeTrue)
		<-p.started

		convey.Convey("Then one job may wait and the next is rejected", func() {
			convey.So(w.Busy(), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, model.Job{Type: model.WorkToHome}), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, model.Job{Type: model.Calendar}), convey.ShouldBeFalse)

			close(p.release)
			<-p.started
			convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
			convey.So(p.processed(), convey.ShouldResemble, []model.EventType{model.HomeToWork, model.WorkToHome})
		})

		convey.Convey("When it shuts down with a job pending", func() {
			done := make(chan model.Result, 1)
			convey.So(q.Enqueue(ctx, model.Job{Type: model.Settings, Done: done}), convey.ShouldBeTrue)

			shut := make(chan error, 1)
			go func() { shut <- w.Shutdown(ctx) }()
			time.Sleep(10 * time.Millisecond)
			close(p.release)

			convey.Convey("Then the running job finishes and the pending one is stopped", func() {
				convey.So(<-shut, convey.ShouldBeNil)
				convey.So(p.processed(), convey.ShouldResemble, []model.EventType{model.HomeToWork})
				res := <-done
				convey.So(errors.Is(res.Err, worker.ErrStopped), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a worker that never finishes", t, func() {
		q := queue.NewInMemoryQueue()
		p := newMockProcessor()
		p.release = make(chan struct{})
		defer close(p.release)
		w := worker.NewInMemoryWorker(q, p)
		go w.Run(context.Background())
		q.Enqueue(context.Background(), model.Job{Type: model.Calendar})
		<-p.started

		convey.Convey("When shutdown has a deadline", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			err := w.Shutdown(ctx)

			convey.Convey("Then it times out", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a closed queue", t, func() {
		q := queue.NewInMemoryQueue()
		_ = q.Close()
		w := worker.NewInMemoryWorker(q, newMockProcessor())

		convey.Convey("Then Run returns", func() {
			finished := make(chan struct{})
			go func() { w.Run(context.Background()); close(finished) }()
			select {
			case <-finished:
			case <-time.After(time.Second):
				convey.So("worker did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}
