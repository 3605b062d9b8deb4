//go:build ws281x

package driver

import (
	"context"
	"fmt"
	"sync"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"

	"github.com/okian/headlights/internal/domain/strip"
)

// WS281x drives a NeoPixel strip wired to a Raspberry Pi GPIO pin through
// the rpi_ws281x C library. Brightness is applied by the library.
type WS281x struct {
	mu  sync.Mutex
	dev *ws2811.WS2811
}

// NewWS281x initialises the device. It requires root and the native library.
func NewWS281x(cfg Config) (*WS281x, error) {
	opt := ws2811.DefaultOptions
	opt.Channels = append([]ws2811.ChannelOption(nil), ws2811.DefaultOptions.Channels...)
	opt.Frequency = cfg.FrequencyHz
	opt.DmaNum = cfg.DMA
	opt.Channels[0].GpioPin = cfg.GPIOPin
	opt.Channels[0].LedCount = cfg.Count
	opt.Channels[0].Brightness = cfg.Brightness
	opt.Channels[0].Invert = cfg.Invert

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("%w: ws281x: %w", ErrConnect, err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("%w: ws281x init: %w", ErrConnect, err)
	}
	return &WS281x{dev: dev}, nil
}

// Render copies f into the channel buffer and renders it.
func (w *WS281x) Render(_ context.Context, f strip.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	leds := w.dev.Leds(0)
	for i, c := range f.Pixels {
		if i >= len(leds) {
			break
		}
		leds[i] = uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	}
	w.dev.SetBrightness(0, int(f.Brightness))
	if err := w.dev.Render(); err != nil {
		return fmt.Errorf("ws281x render: %w", err)
	}
	return nil
}

// Close releases the device.
func (w *WS281x) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dev.Fini()
	return nil
}

func newWS281x(cfg Config) (strip.Driver, error) {
	return NewWS281x(cfg)
}
