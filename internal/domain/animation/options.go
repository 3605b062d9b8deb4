package animation

import "time"

// Pattern names an animation.
type Pattern string

// Known patterns.
const (
	PatternFill   Pattern = "fill"
	PatternBlink  Pattern = "blink"
	PatternSpread Pattern = "spread"
	PatternFade   Pattern = "fade"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithBlink sets the blink toggle interval and number of on-phases.
func WithBlink(wait time.Duration, iterations int) Option {
	return func(e *Engine) {
		if wait >= 0 {
			e.blinkWait = wait
		}
		if iterations > 0 {
			e.blinkIterations = iterations
		}
	}
}

// WithSpreadWait sets the delay between spread steps.
func WithSpreadWait(wait time.Duration) Option {
	return func(e *Engine) {
		if wait >= 0 {
			e.spreadWait = wait
		}
	}
}

// WithFade sets the delay between fade steps and the brightness decrement.
func WithFade(wait time.Duration, step int) Option {
	return func(e *Engine) {
		if wait >= 0 {
			e.fadeWait = wait
		}
		if step > 0 {
			e.fadeStep = step
		}
	}
}

// WithMaxBrightness sets the brightness ceiling, clamped to [1, 255].
func WithMaxBrightness(level int) Option {
	return func(e *Engine) {
		switch {
		case level < 1:
			e.maxBrightness = 1
		case level > 255:
			e.maxBrightness = 255
		default:
			e.maxBrightness = level
		}
	}
}

// WithSleeper replaces time.Sleep.
func WithSleeper(s Sleeper) Option {
	return func(e *Engine) {
		if s != nil {
			e.sleep = s
		}
	}
}
