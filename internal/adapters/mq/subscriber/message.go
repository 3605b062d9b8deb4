package subscriber

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/okian/headlights/internal/domain/model"
)

// Message attribute names. Publishers may send them as headers or as a
// JSON body with the same keys.
const (
	HeaderAction = "action"
	HeaderOrig   = "orig"
	HeaderDest   = "dest"
)

// EventMessage is the JSON body form of a commute event.
type EventMessage struct {
	ID     string `json:"id,omitempty"`
	Action string `json:"action"`
	Orig   string `json:"orig,omitempty"`
	Dest   string `json:"dest,omitempty"`
}

// Marshal serializes the message to JSON.
func (m EventMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Header returns the message as NATS headers. A non-empty ID becomes the
// Nats-Msg-Id header.
func (m EventMessage) Header() nats.Header {
	h := nats.Header{}
	h.Set(HeaderAction, m.Action)
	if m.Orig != "" {
		h.Set(HeaderOrig, m.Orig)
	}
	if m.Dest != "" {
		h.Set(HeaderDest, m.Dest)
	}
	if m.ID != "" {
		h.Set(nats.MsgIdHdr, m.ID)
	}
	return h
}

// Decode turns a NATS message into a raw event. Headers win over the body.
func Decode(msg *nats.Msg) (model.RawEvent, error) {
	var m EventMessage
	if action := msg.Header.Get(HeaderAction); action != "" {
		m = EventMessage{
			Action: action,
			Orig:   msg.Header.Get(HeaderOrig),
			Dest:   msg.Header.Get(HeaderDest),
		}
	} else {
		if len(msg.Data) == 0 {
			return model.RawEvent{}, fmt.Errorf("%w: no action header and empty body", ErrInvalidMessage)
		}
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			return model.RawEvent{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
		}
	}

	id := msg.Header.Get(nats.MsgIdHdr)
	if id == "" {
		id = m.ID
	}

	return model.RawEvent{
		ID:         id,
		Action:     strings.TrimSpace(m.Action),
		Orig:       model.ParseCode(strings.TrimSpace(m.Orig)),
		Dest:       model.ParseCode(strings.TrimSpace(m.Dest)),
		ReceivedAt: time.Now(),
	}, nil
}
