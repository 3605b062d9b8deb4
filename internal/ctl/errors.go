package ctl

import "errors"

// Sentinel errors returned by the control client.
var (
	ErrRejected   = errors.New("request rejected")
	ErrNoAck      = errors.New("unexpected reply")
	ErrBadAddress = errors.New("bad address")
)
