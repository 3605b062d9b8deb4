// Package quiet decides whether notifications are currently suppressed.
package quiet

import (
	"fmt"
	"time"
)

// Window is the half-open range of hours [Start, End) during which the strip
// may fire. Hours outside the window are quiet.
type Window struct {
	Start int
	End   int
}

// Allows reports whether hour falls inside the window.
func (w Window) Allows(hour int) bool {
	return hour >= w.Start && hour < w.End
}

// Validate checks that the window lies within a day and is non-empty.
func (w Window) Validate() error {
	if w.Start < 0 || w.End > 24 || w.Start >= w.End {
		return fmt.Errorf("%w: window [%d,%d)", ErrInvalidWindow, w.Start, w.End)
	}
	return nil
}

// Gate is a pure predicate over wall-clock time.
type Gate struct {
	weekday  Window
	weekend  Window
	location *time.Location
}

// Default windows.
var (
	DefaultWeekday = Window{Start: 8, End: 22}
	DefaultWeekend = Window{Start: 10, End: 23}
)

// Option applies a configuration option to the Gate.
type Option func(*Gate)

// WithWeekday sets the Monday..Friday window.
func WithWeekday(w Window) Option {
	return func(g *Gate) { g.weekday = w }
}

// WithWeekend sets the Saturday/Sunday window.
func WithWeekend(w Window) Option {
	return func(g *Gate) { g.weekend = w }
}

// WithLocation evaluates hours in loc instead of the time's own zone.
func WithLocation(loc *time.Location) Option {
	return func(g *Gate) {
		if loc != nil {
			g.location = loc
		}
	}
}

// New builds a Gate. Invalid windows are reported, not corrected.
func New(opts ...Option) (*Gate, error) {
	g := &Gate{weekday: DefaultWeekday, weekend: DefaultWeekend}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.weekday.Validate(); err != nil {
		return nil, fmt.Errorf("weekday: %w", err)
	}
	if err := g.weekend.Validate(); err != nil {
		return nil, fmt.Errorf("weekend: %w", err)
	}
	return g, nil
}

// IsQuiet reports whether notifications are suppressed at now.
func (g *Gate) IsQuiet(now time.Time) bool {
	if g.location != nil {
		now = now.In(g.location)
	}
	return !g.window(now.Weekday()).Allows(now.Hour())
}

func (g *Gate) window(d time.Weekday) Window {
	if d == time.Saturday || d == time.Sunday {
		return g.weekend
	}
	return g.weekday
}
