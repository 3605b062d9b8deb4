package subscriber

import "errors"

// Sentinel errors for the queue subscriber.
var (
	ErrInvalidMessage = errors.New("invalid event message")
	ErrNotConnected   = errors.New("not connected")
)
