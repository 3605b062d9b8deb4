package driver

import "errors"

// Sentinel kinds for driver errors.
var (
	ErrClosed        = errors.New("driver closed")
	ErrUnknownDriver = errors.New("unknown strip driver")
	ErrUnsupported   = errors.New("driver not supported in this build")
	ErrConnect       = errors.New("driver connect failed")
)
