package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/headlights/internal/domain/animation"
	"github.com/okian/headlights/internal/domain/classify"
	"github.com/okian/headlights/internal/domain/model"
	"github.com/okian/headlights/internal/domain/palette"
	"github.com/okian/headlights/internal/domain/quiet"
	"github.com/okian/headlights/internal/domain/strip"
	"github.com/okian/headlights/internal/events"
	"github.com/okian/headlights/pkg/logger"
	"github.com/okian/headlights/pkg/metrics"
)

// Dispatcher turns events into animations on one strip:
// classify, drop unrecognized, drop during quiet hours, pick a colour, animate.
// Error blinks; every other type spreads.
type Dispatcher struct {
	mu sync.Mutex // held for the whole animation

	surface animation.Surface
	engine  *animation.Engine
	gate    *quiet.Gate
	palette *palette.Palette
	exempt  map[model.EventType]bool
	now     func() time.Time
	bus     *events.Bus
	logger  logger.Logger
}

// DispatcherOption applies a configuration option to the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithEngine sets the animation engine.
func WithEngine(e *animation.Engine) DispatcherOption {
	return func(d *Dispatcher) {
		if e != nil {
			d.engine = e
		}
	}
}

// WithGate sets the quiet-hours gate.
func WithGate(g *quiet.Gate) DispatcherOption {
	return func(d *Dispatcher) {
		if g != nil {
			d.gate = g
		}
	}
}

// WithPalette sets the colour map.
func WithPalette(p *palette.Palette) DispatcherOption {
	return func(d *Dispatcher) {
		if p != nil {
			d.palette = p
		}
	}
}

// WithQuietExempt lets the given types fire during quiet hours.
func WithQuietExempt(types ...model.EventType) DispatcherOption {
	return func(d *Dispatcher) {
		for _, t := range types {
			d.exempt[t] = true
		}
	}
}

// WithClock replaces time.Now for the quiet-hours check.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithBus publishes dispatch outcomes on b.
func WithBus(b *events.Bus) DispatcherOption {
	return func(d *Dispatcher) {
		d.bus = b
	}
}

// WithDispatcherLogger sets a custom logger for the dispatcher.
func WithDispatcherLogger(l logger.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a Dispatcher driving s with the default engine,
// gate and palette.
func NewDispatcher(s animation.Surface, opts ...DispatcherOption) *Dispatcher {
	gate, _ := quiet.New() // default windows are valid
	d := &Dispatcher{
		surface: s,
		engine:  animation.New(),
		gate:    gate,
		palette: palette.Default(),
		exempt:  make(map[model.EventType]bool),
		now:     time.Now,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle classifies raw and fires it.
func (d *Dispatcher) Handle(ctx context.Context, raw model.RawEvent) (model.Outcome, error) {
	return d.fire(ctx, classify.Classify(raw), "direct")
}

// Fire runs the treatment for t, skipping classification.
func (d *Dispatcher) Fire(ctx context.Context, t model.EventType) (model.Outcome, error) {
	return d.fire(ctx, t, "direct")
}

// Process implements worker.Processor. Jobs without a known Type are
// classified from their raw event.
func (d *Dispatcher) Process(ctx context.Context, job model.Job) model.Result {
	t := job.Type
	if !t.Known() {
		t = classify.Classify(job.Raw)
	}
	outcome, err := d.fire(ctx, t, job.Source)
	return model.Result{Type: t, Outcome: outcome, Err: err}
}

// Pattern returns the animation used for t.
func Pattern(t model.EventType) animation.Pattern {
	if t == model.Error {
		return animation.PatternBlink
	}
	return animation.PatternSpread
}

func (d *Dispatcher) fire(ctx context.Context, t model.EventType, source string) (model.Outcome, error) {
	metrics.RecordEventClassified(t.String())

	if !t.Known() {
		d.logger.Debug(ctx, "dropping unrecognized event", logger.String("transport", source))
		d.drop(t, events.ReasonUnrecognized, source)
		return model.DroppedUnrecognized, nil
	}

	now := d.now()
	if !d.exempt[t] && d.gate.IsQuiet(now) {
		d.logger.Debug(ctx, "dropping event during quiet hours",
			logger.String("type", t.String()),
			logger.String("at", now.Format(time.RFC3339)),
		)
		d.drop(t, events.ReasonQuiet, source)
		return model.DroppedQuiet, nil
	}

	color, ok := d.palette.Lookup(t)
	if !ok {
		// palettes are total over known types; keep the strip dark otherwise
		d.drop(t, events.ReasonUnrecognized, source)
		return model.DroppedUnrecognized, nil
	}

	pattern := Pattern(t)
	start := time.Now()
	err := d.animate(ctx, pattern, color)
	took := time.Since(start)

	if err != nil {
		if errors.Is(err, strip.ErrCommit) {
			metrics.RecordCommitError()
		}
		d.logger.Error(ctx, "animation aborted",
			logger.String("type", t.String()),
			logger.String("pattern", string(pattern)),
			logger.Error(err),
		)
		d.bus.Publish(events.Failed{Event: t, Err: err, At: now, Source: source})
		return model.Fired, err
	}

	metrics.RecordAnimation(string(pattern), t.String(), float64(took.Milliseconds()))
	d.logger.Info(ctx, "event shown",
		logger.String("type", t.String()),
		logger.String("pattern", string(pattern)),
		logger.String("color", color.String()),
		logger.String("transport", source),
		logger.Duration("took", took),
	)
	d.bus.Publish(events.Fired{Event: t, Pattern: string(pattern), Color: color, Took: took, At: now, Source: source})
	return model.Fired, nil
}

func (d *Dispatcher) animate(ctx context.Context, pattern animation.Pattern, c strip.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pattern == animation.PatternBlink {
		return d.engine.Blink(ctx, d.surface, c)
	}
	return d.engine.Spread(ctx, d.surface, c)
}

func (d *Dispatcher) drop(t model.EventType, reason, source string) {
	metrics.RecordEventDropped(reason)
	d.bus.Publish(events.Dropped{Event: t, Reason: reason, At: d.now(), Source: source})
}
