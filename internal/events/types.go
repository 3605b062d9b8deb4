package events

import (
	"time"

	"github.com/okian/headlights/internal/domain/model"
	"github.com/okian/headlights/internal/domain/strip"
)

// Event type constants for kelindar/event.
const (
	TypeFired uint32 = iota + 1
	TypeDropped
	TypeFailed
)

// Drop reasons.
const (
	ReasonUnrecognized = "unrecognized"
	ReasonQuiet        = "quiet"
	ReasonBusy         = "busy"
	ReasonDuplicate    = "duplicate"
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// Fired is published after an animation ran to completion.
type Fired struct {
	Event   model.EventType
	Pattern string
	Color   strip.Color
	Took    time.Duration
	At      time.Time
	Source  string
}

// Type returns the event type identifier for Fired.
func (Fired) Type() uint32 { return TypeFired }

// Dropped is published when an event was not shown.
type Dropped struct {
	Event  model.EventType
	Reason string
	At     time.Time
	Source string
}

// Type returns the event type identifier for Dropped.
func (Dropped) Type() uint32 { return TypeDropped }

// Failed is published when an animation aborted on a commit error.
type Failed struct {
	Event  model.EventType
	Err    error
	At     time.Time
	Source string
}

// Type returns the event type identifier for Failed.
func (Failed) Type() uint32 { return TypeFailed }
