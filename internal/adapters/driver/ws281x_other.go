//go:build !ws281x

package driver

import (
	"fmt"

	"github.com/okian/headlights/internal/domain/strip"
)

// newWS281x reports that the binary was built without the ws281x tag.
func newWS281x(Config) (strip.Driver, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags ws281x", ErrUnsupported)
}
