// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config holding every default.
//   - Load layers a YAML file and HEADLIGHTS_* environment variables on top.
//   - Validate rejects values the service cannot start with.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/okian/headlights/internal/adapters/driver"
	"github.com/okian/headlights/internal/domain/palette"
	"github.com/okian/headlights/internal/domain/quiet"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the pending animation slot.
	QueueSize int `koanf:"queue_size"`

	// ShutdownTimeoutMS bounds how long shutdown waits for a running animation.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	Strip      Strip             `koanf:"strip"`
	Timing     Timing            `koanf:"timing"`
	QuietHours QuietHours        `koanf:"quiet_hours"`
	NATS       NATS              `koanf:"nats"`
	Colors     map[string]string `koanf:"colors"`
}

// Strip configures the LED strip and its output driver.
type Strip struct {
	Count       int    `koanf:"count"`
	Brightness  int    `koanf:"brightness"`
	Driver      string `koanf:"driver"`
	OPCAddr     string `koanf:"opc_addr"`
	OPCChannel  int    `koanf:"opc_channel"`
	GPIOPin     int    `koanf:"gpio_pin"`
	DMA         int    `koanf:"dma"`
	FrequencyHz int    `koanf:"frequency_hz"`
	Invert      bool   `koanf:"invert"`
}

// Timing configures the animation engine.
type Timing struct {
	BlinkWaitMS     int `koanf:"blink_wait_ms"`
	BlinkIterations int `koanf:"blink_iterations"`
	SpreadWaitMS    int `koanf:"spread_wait_ms"`
	FadeWaitMS      int `koanf:"fade_wait_ms"`
	FadeStep        int `koanf:"fade_step"`
}

// QuietHours configures the allowed display windows. Hours are [start, end).
type QuietHours struct {
	WeekdayStart int    `koanf:"weekday_start"`
	WeekdayEnd   int    `koanf:"weekday_end"`
	WeekendStart int    `koanf:"weekend_start"`
	WeekendEnd   int    `koanf:"weekend_end"`
	Timezone     string `koanf:"timezone"`
	// ExemptError lets Error events through during quiet hours.
	ExemptError bool `koanf:"exempt_error"`
}

// NATS configures the message queue subscriber.
type NATS struct {
	Enabled    bool   `koanf:"enabled"`
	URL        string `koanf:"url"`
	Subject    string `koanf:"subject"`
	QueueGroup string `koanf:"queue_group"`
	DedupeSize int    `koanf:"dedupe_size"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		QueueSize:         1,
		ShutdownTimeoutMS: 5000,
		Strip: Strip{
			Count:       59,
			Brightness:  255,
			Driver:      driver.NameLog,
			OPCAddr:     "localhost:7890",
			OPCChannel:  0,
			GPIOPin:     12,
			DMA:         5,
			FrequencyHz: 800000,
		},
		Timing: Timing{
			BlinkWaitMS:     100,
			BlinkIterations: 3,
			SpreadWaitMS:    10,
			FadeWaitMS:      10,
			FadeStep:        5,
		},
		QuietHours: QuietHours{
			WeekdayStart: 8,
			WeekdayEnd:   22,
			WeekendStart: 10,
			WeekendEnd:   23,
			Timezone:     "Local",
		},
		NATS: NATS{
			URL:        "nats://127.0.0.1:4222",
			Subject:    "headlights.events",
			QueueGroup: "headlights",
			DedupeSize: 1024,
		},
		Colors: map[string]string{},
	}
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Addr == "" {
		return invalid("addr must not be empty")
	}
	if c.QueueSize < 1 {
		return invalid("queue_size must be at least 1, got %d", c.QueueSize)
	}
	if c.Strip.Count < 1 {
		return invalid("strip.count must be at least 1, got %d", c.Strip.Count)
	}
	if c.Strip.Brightness < 1 || c.Strip.Brightness > 255 {
		return invalid("strip.brightness must be within [1, 255], got %d", c.Strip.Brightness)
	}
	if !slices.Contains(driver.Names(), c.Strip.Driver) {
		return invalid("strip.driver %q is not one of %v", c.Strip.Driver, driver.Names())
	}
	if c.Strip.OPCChannel < 0 || c.Strip.OPCChannel > 255 {
		return invalid("strip.opc_channel must be within [0, 255], got %d", c.Strip.OPCChannel)
	}

	t := c.Timing
	if t.BlinkWaitMS < 0 || t.SpreadWaitMS < 0 || t.FadeWaitMS < 0 {
		return invalid("timing waits must not be negative")
	}
	if t.BlinkIterations < 1 {
		return invalid("timing.blink_iterations must be at least 1, got %d", t.BlinkIterations)
	}
	if t.FadeStep < 1 {
		return invalid("timing.fade_step must be at least 1, got %d", t.FadeStep)
	}

	q := c.QuietHours
	if err := checkWindow("weekday", q.WeekdayStart, q.WeekdayEnd); err != nil {
		return invalid("%v", err)
	}
	if err := checkWindow("weekend", q.WeekendStart, q.WeekendEnd); err != nil {
		return invalid("%v", err)
	}
	if _, err := q.Location(); err != nil {
		return invalid("quiet_hours.timezone: %v", err)
	}

	if _, err := palette.New(c.Colors); err != nil {
		return invalid("colors: %v", err)
	}

	if c.NATS.Enabled && (c.NATS.URL == "" || c.NATS.Subject == "") {
		return invalid("nats.url and nats.subject are required when nats is enabled")
	}
	return nil
}

func checkWindow(name string, start, end int) error {
	if start < 0 || end > 24 || start >= end {
		return fmt.Errorf("quiet_hours.%s window [%d, %d) must satisfy 0 <= start < end <= 24", name, start, end)
	}
	return nil
}

// Location resolves the configured time zone.
func (q QuietHours) Location() (*time.Location, error) {
	if q.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(q.Timezone)
}

// Gate builds the quiet-hours gate these settings describe.
func (q QuietHours) Gate() (*quiet.Gate, error) {
	loc, err := q.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", q.Timezone, err)
	}
	return quiet.New(
		quiet.WithWeekday(quiet.Window{Start: q.WeekdayStart, End: q.WeekdayEnd}),
		quiet.WithWeekend(quiet.Window{Start: q.WeekendStart, End: q.WeekendEnd}),
		quiet.WithLocation(loc),
	)
}

// ShutdownTimeout returns the shutdown bound as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// BlinkWait returns the blink toggle interval.
func (t Timing) BlinkWait() time.Duration { return ms(t.BlinkWaitMS) }

// SpreadWait returns the spread step interval.
func (t Timing) SpreadWait() time.Duration { return ms(t.SpreadWaitMS) }

// FadeWait returns the fade step interval.
func (t Timing) FadeWait() time.Duration { return ms(t.FadeWaitMS) }

// DriverConfig converts the strip section into driver bring-up parameters.
func (s Strip) DriverConfig() driver.Config {
	return driver.Config{
		Name:        s.Driver,
		Count:       s.Count,
		Brightness:  s.Brightness,
		OPCAddr:     s.OPCAddr,
		OPCChannel:  uint8(s.OPCChannel),
		GPIOPin:     s.GPIOPin,
		DMA:         s.DMA,
		FrequencyHz: s.FrequencyHz,
		Invert:      s.Invert,
	}
}
