// Package subscriber receives commute events from NATS and feeds them to the
// strip one message at a time. The next message is only pulled after the
// current one was shown or dropped, and the reply is sent at that point.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/okian/headlights/internal/domain/model"
	"github.com/okian/headlights/pkg/logger"
	"github.com/okian/headlights/pkg/metrics"
)

// Source is the transport name recorded on jobs and metrics.
const Source = "nats"

// Ack is the reply body sent once a message is done with.
var Ack = []byte("ack")

const (
	defaultQueueGroup = "headlights"
	reconnectWait     = 2 * time.Second
)

// Dispatcher is what the subscriber needs from the service.
type Dispatcher interface {
	Dispatch(ctx context.Context, job model.Job) (model.Result, error)
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
}

// MessageSource yields messages one at a time. *nats.Subscription satisfies it.
type MessageSource interface {
	NextMsgWithContext(ctx context.Context) (*nats.Msg, error)
}

// Subscriber is a NATS queue subscriber.
type Subscriber struct {
	url        string
	subject    string
	queueGroup string
	name       string

	dispatcher Dispatcher
	isBusy     func(error) bool
	respond    func(msg *nats.Msg, data []byte) error

	mu   sync.Mutex
	conn *nats.Conn
	sub  *nats.Subscription
	done chan struct{}

	logger logger.Logger
}

// New creates a subscriber for subject on the server at url.
func New(url, subject string, d Dispatcher, opts ...Option) *Subscriber {
	s := &Subscriber{
		url:           url,
		subject:       subject,
		queueGroup:    defaultQueueGroup,
		name:          "headlights",
		dispatcher: d,
		isBusy:     func(error) bool { return false },
		respond:    (*nats.Msg).Respond,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start connects, subscribes and runs the receive loop until ctx ends or
// Stop is called.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := nats.Connect(s.url,
		nats.Name(s.name),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.logger.Warn(ctx, "nats disconnected", logger.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			s.logger.Info(ctx, "nats reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connect %s: %w", s.url, err)
	}

	sub, err := conn.QueueSubscribeSync(s.subject, s.queueGroup)
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}

	s.conn = conn
	s.sub = sub
	s.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		s.Run(ctx, sub)
	}(s.done)

	s.logger.Info(ctx, "nats subscriber started",
		logger.String("url", s.url),
		logger.String("subject", s.subject),
		logger.String("queue", s.queueGroup),
	)
	return nil
}

// Run pulls and handles messages until ctx ends or src is closed.
func (s *Subscriber) Run(ctx context.Context, src MessageSource) {
	for {
		msg, err := src.NextMsgWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil ||
				errors.Is(err, nats.ErrBadSubscription) ||
				errors.Is(err, nats.ErrConnectionClosed) {
				return
			}
			s.logger.Warn(ctx, "receive failed", logger.Error(err))
			continue
		}
		s.Handle(ctx, msg)
	}
}

// Handle processes one message and replies once it is done.
// It returns the handling result used for metrics.
func (s *Subscriber) Handle(ctx context.Context, msg *nats.Msg) string {
	result := s.handle(ctx, msg)
	metrics.RecordNATSMessage(result)

	if msg.Reply != "" {
		if err := s.respond(msg, Ack); err != nil {
			s.logger.Warn(ctx, "ack failed", logger.Error(err))
		}
	}
	return result
}

func (s *Subscriber) handle(ctx context.Context, msg *nats.Msg) string {
	raw, err := Decode(msg)
	if err != nil {
		s.logger.Warn(ctx, "discarding message", logger.String("subject", msg.Subject), logger.Error(err))
		return "invalid"
	}

	if raw.ID != "" && s.dispatcher.SeenAndRecord(ctx, raw.ID) {
		s.logger.Debug(ctx, "duplicate message", logger.String("id", raw.ID))
		return "duplicate"
	}

	res, err := s.dispatcher.Dispatch(ctx, model.Job{Raw: raw, Source: Source})
	switch {
	case err == nil:
		return res.Outcome.String()
	case s.isBusy(err):
		// dropped without showing; a republish with the same id may still fire
		s.dispatcher.Unrecord(ctx, raw.ID)
		return "busy"
	case ctx.Err() != nil:
		s.dispatcher.Unrecord(ctx, raw.ID)
		return "cancelled"
	default:
		s.logger.Error(ctx, "event failed",
			logger.String("id", raw.ID),
			logger.String("type", res.Type.String()),
			logger.Error(err),
		)
		return "failed"
	}
}

// Stop unsubscribes, closes the connection and waits for the loop to exit.
func (s *Subscriber) Stop(ctx context.Context) error {
	s.mu.Lock()
	sub, conn, done := s.sub, s.conn, s.done
	s.sub, s.conn = nil, nil
	s.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	if sub != nil {
		_ = sub.Unsubscribe()
	}
	conn.Close()

	select {
	case <-done:
		s.logger.Info(ctx, "nats subscriber stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop nats subscriber: %w", ctx.Err())
	}
}

// IsConnected reports whether the subscriber has a live connection.
func (s *Subscriber) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && s.conn.IsConnected()
}
