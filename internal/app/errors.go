package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrBusy         = errors.New("strip busy")
	ErrNotStarted   = errors.New("service not started")
	ErrUnknownEvent = errors.New("unknown event")
)
