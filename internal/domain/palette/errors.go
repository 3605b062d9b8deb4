package palette

import "errors"

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidColor     = errors.New("invalid color")
)
