package ctl

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/okian/headlights/internal/adapters/mq/subscriber"
)

// Requester sends a message and waits for its reply. *nats.Conn satisfies it.
type Requester interface {
	RequestMsgWithContext(ctx context.Context, msg *nats.Msg) (*nats.Msg, error)
}

// Publish sends ev to subject and waits until the strip acknowledged it.
// A message id is generated when ev has none; it is returned either way.
func Publish(ctx context.Context, r Requester, subject string, ev subscriber.EventMessage) (string, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	body, err := ev.Marshal()
	if err != nil {
		return ev.ID, fmt.Errorf("encode event: %w", err)
	}

	msg := nats.NewMsg(subject)
	msg.Header = ev.Header()
	msg.Data = body

	reply, err := r.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return ev.ID, fmt.Errorf("request %s: %w", subject, err)
	}
	if !bytes.Equal(reply.Data, subscriber.Ack) {
		return ev.ID, fmt.Errorf("%w: %q", ErrNoAck, reply.Data)
	}
	return ev.ID, nil
}
