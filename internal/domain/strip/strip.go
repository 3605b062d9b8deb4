// Package strip models a linear array of addressable pixels plus a global
// brightness scalar. Writes are buffered; nothing reaches the hardware until
// Commit hands a Frame to the Driver.
package strip

import (
	"context"
	"fmt"
	"sync"
)

// MaxBrightness is the upper bound of the brightness scale.
const MaxBrightness = 255

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Off is the rest colour.
var Off = Color{}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// Scale returns c as displayed at brightness b. Drivers that have no
// hardware brightness control use it at render time.
func (c Color) Scale(b uint8) Color {
	if b == MaxBrightness {
		return c
	}
	scale := func(v uint8) uint8 { return uint8(uint16(v) * uint16(b) / MaxBrightness) }
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B)}
}

// Frame is an immutable snapshot handed to a Driver on commit.
type Frame struct {
	Pixels     []Color
	Brightness uint8
}

// Driver pushes frames to the physical output.
type Driver interface {
	Render(ctx context.Context, f Frame) error
	Close() error
}

// Strip holds N pixels and a brightness level. It is safe for concurrent
// use, but callers that run multi-step animations must serialise themselves.
type Strip struct {
	mu         sync.Mutex
	pixels     []Color
	brightness uint8
	driver     Driver
}

// New creates a strip of n pixels at full brightness.
func New(n int, driver Driver) (*Strip, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: pixel count %d", ErrInvalidLength, n)
	}
	if driver == nil {
		return nil, ErrNoDriver
	}
	return &Strip{
		pixels:     make([]Color, n),
		brightness: MaxBrightness,
		driver:     driver,
	}, nil
}

// Len returns the fixed pixel count.
func (s *Strip) Len() int {
	return len(s.pixels)
}

// SetPixel buffers colour c at index i.
func (s *Strip) SetPixel(i int, c Color) error {
	if i < 0 || i >= len(s.pixels) {
		return &OutOfRangeError{Index: i, Len: len(s.pixels)}
	}
	s.mu.Lock()
	s.pixels[i] = c
	s.mu.Unlock()
	return nil
}

// Pixel returns the buffered colour at index i.
func (s *Strip) Pixel(i int) (Color, error) {
	if i < 0 || i >= len(s.pixels) {
		return Off, &OutOfRangeError{Index: i, Len: len(s.pixels)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pixels[i], nil
}

// Pixels returns a copy of the buffered colours.
func (s *Strip) Pixels() []Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Color, len(s.pixels))
	copy(out, s.pixels)
	return out
}

// SetBrightness sets the global brightness, clamping level to [0, 255].
// Stored pixel colours are not touched.
func (s *Strip) SetBrightness(level int) {
	switch {
	case level < 0:
		level = 0
	case level > MaxBrightness:
		level = MaxBrightness
	}
	s.mu.Lock()
	s.brightness = uint8(level)
	s.mu.Unlock()
}

// Brightness returns the buffered brightness.
func (s *Strip) Brightness() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

// Commit flushes the buffered state to the driver and blocks until the
// driver returns.
func (s *Strip) Commit(ctx context.Context) error {
	s.mu.Lock()
	f := Frame{Pixels: make([]Color, len(s.pixels)), Brightness: s.brightness}
	copy(f.Pixels, s.pixels)
	s.mu.Unlock()

	if err := s.driver.Render(ctx, f); err != nil {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}
	return nil
}

// Fill sets every pixel to c and commits.
func (s *Strip) Fill(ctx context.Context, c Color) error {
	s.mu.Lock()
	for i := range s.pixels {
		s.pixels[i] = c
	}
	s.mu.Unlock()
	return s.Commit(ctx)
}

// Close releases the driver.
func (s *Strip) Close() error {
	return s.driver.Close()
}
