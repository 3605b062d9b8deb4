// Package animation runs the timed visual patterns on a strip. Every
// function blocks until its pattern has finished: the timing is the effect.
// Blink and Spread end with Fade, which leaves the strip dark at full
// brightness, ready for the next animation.
package animation

import (
	"context"
	"time"

	"github.com/okian/headlights/internal/domain/strip"
)

// Default timing.
const (
	DefaultBlinkWait       = 100 * time.Millisecond
	DefaultBlinkIterations = 3
	DefaultSpreadWait      = 10 * time.Millisecond
	DefaultFadeWait        = 10 * time.Millisecond
	DefaultFadeStep        = 5
)

// Surface is the part of a strip the animations drive.
type Surface interface {
	Len() int
	SetPixel(i int, c strip.Color) error
	SetBrightness(level int)
	Commit(ctx context.Context) error
	Fill(ctx context.Context, c strip.Color) error
}

// Sleeper pauses between steps. Tests swap in a no-op.
type Sleeper func(time.Duration)

// Engine carries the timing shared by all patterns.
type Engine struct {
	blinkWait       time.Duration
	blinkIterations int
	spreadWait      time.Duration
	fadeWait        time.Duration
	fadeStep        int
	maxBrightness   int
	sleep           Sleeper
}

// New creates an Engine with the default timing.
func New(opts ...Option) *Engine {
	e := &Engine{
		blinkWait:       DefaultBlinkWait,
		blinkIterations: DefaultBlinkIterations,
		spreadWait:      DefaultSpreadWait,
		fadeWait:        DefaultFadeWait,
		fadeStep:        DefaultFadeStep,
		maxBrightness:   strip.MaxBrightness,
		sleep:           time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxBrightness returns the brightness ceiling the engine restores to.
func (e *Engine) MaxBrightness() int {
	return e.maxBrightness
}

// Fill shows c on every pixel immediately.
func (e *Engine) Fill(ctx context.Context, s Surface, c strip.Color) error {
	return s.Fill(ctx, c)
}

// Blink fills the strip with c, toggles brightness between the ceiling and
// zero 2*iterations-1 times (starting and ending lit), then fades out.
func (e *Engine) Blink(ctx context.Context, s Surface, c strip.Color) error {
	if err := s.Fill(ctx, c); err != nil {
		return err
	}
	for i := 0; i < 2*e.blinkIterations-1; i++ {
		if i%2 == 0 {
			s.SetBrightness(e.maxBrightness)
		} else {
			s.SetBrightness(0)
		}
		if err := s.Commit(ctx); err != nil {
			return err
		}
		e.sleep(e.blinkWait)
	}
	return e.Fade(ctx, s)
}

// Spread grows c symmetrically from the middle of the strip to both ends,
// then fades out. With an odd pixel count both cursors start on the centre
// pixel; with an even count they start on the two centre pixels, so no
// pixel is written twice.
func (e *Engine) Spread(ctx context.Context, s Surface, c strip.Color) error {
	n := s.Len()
	i, j := (n-1)/2, n/2
	for i >= 0 && j < n {
		if err := s.SetPixel(i, c); err != nil {
			return err
		}
		if j != i {
			if err := s.SetPixel(j, c); err != nil {
				return err
			}
		}
		if err := s.Commit(ctx); err != nil {
			return err
		}
		e.sleep(e.spreadWait)
		i--
		j++
	}
	return e.Fade(ctx, s)
}

// Fade steps brightness down from the ceiling to just above zero, then
// blanks every pixel and restores the ceiling.
func (e *Engine) Fade(ctx context.Context, s Surface) error {
	for level := e.maxBrightness; level > 0; level -= e.fadeStep {
		s.SetBrightness(level)
		if err := s.Commit(ctx); err != nil {
			return err
		}
		e.sleep(e.fadeWait)
	}
	for i := 0; i < s.Len(); i++ {
		if err := s.SetPixel(i, strip.Off); err != nil {
			return err
		}
	}
	s.SetBrightness(e.maxBrightness)
	return s.Commit(ctx)
}

// Duration estimates how long a pattern blocks for a strip of n pixels,
// ignoring commit time.
func (e *Engine) Duration(pattern Pattern, n int) time.Duration {
	fadeSteps := (e.maxBrightness + e.fadeStep - 1) / e.fadeStep
	fade := time.Duration(fadeSteps) * e.fadeWait
	switch pattern {
	case PatternBlink:
		return time.Duration(2*e.blinkIterations-1)*e.blinkWait + fade
	case PatternSpread:
		return time.Duration((n+1)/2)*e.spreadWait + fade
	case PatternFade:
		return fade
	default:
		return 0
	}
}
