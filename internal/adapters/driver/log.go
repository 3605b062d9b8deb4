package driver

import (
	"context"
	"strings"

	"github.com/okian/headlights/internal/domain/strip"
	"github.com/okian/headlights/pkg/logger"
)

// Log renders frames as debug log lines. It is the default driver so the
// service runs on machines without a strip attached.
type Log struct {
	logger logger.Logger
}

// NewLog creates a logging driver.
func NewLog(l logger.Logger) *Log {
	return &Log{logger: l}
}

// Render logs a compact summary of f.
func (d *Log) Render(ctx context.Context, f strip.Frame) error {
	d.logger.Debug(ctx, "frame",
		logger.Int("brightness", int(f.Brightness)),
		logger.Int("lit", lit(f.Pixels)),
		logger.String("pixels", summarize(f.Pixels)),
	)
	return nil
}

// Close is a no-op.
func (d *Log) Close() error { return nil }

func lit(px []strip.Color) int {
	n := 0
	for _, c := range px {
		if c != strip.Off {
			n++
		}
	}
	return n
}

// summarize renders one character per pixel: '#' lit, '.' off.
func summarize(px []strip.Color) string {
	var b strings.Builder
	b.Grow(len(px))
	for _, c := range px {
		if c == strip.Off {
			b.WriteByte('.')
		} else {
			b.WriteByte('#')
		}
	}
	return b.String()
}
