package strip

import (
	"errors"
	"fmt"
)

// Sentinel kinds for strip errors.
var (
	ErrOutOfRange    = errors.New("pixel index out of range")
	ErrInvalidLength = errors.New("invalid strip length")
	ErrNoDriver      = errors.New("strip driver is required")
	ErrCommit        = errors.New("strip commit failed")
)

// OutOfRangeError reports a write outside [0, Len).
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("pixel index %d out of range [0,%d)", e.Index, e.Len)
}

// Is lets errors.Is match ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
