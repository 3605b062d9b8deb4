package quiet

import "errors"

// Sentinel kinds for quiet-hours errors.
var (
	ErrInvalidWindow = errors.New("invalid quiet-hours window")
)
