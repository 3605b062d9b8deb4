package driver

import (
	"context"
	"sync"

	"github.com/okian/headlights/internal/domain/strip"
)

// Memory records every rendered frame. It backs the "memory" driver and is
// the recorder used by animation tests.
type Memory struct {
	mu     sync.Mutex
	frames []strip.Frame
	failAt int
	err    error
	closed bool
}

// NewMemory creates an empty recorder.
func NewMemory() *Memory {
	return &Memory{failAt: -1}
}

// FailAt makes the n-th render (0-based) and every later one return err.
func (m *Memory) FailAt(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.err = err
}

// Render stores a copy of f.
func (m *Memory) Render(_ context.Context, f strip.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.failAt >= 0 && len(m.frames) >= m.failAt {
		return m.err
	}
	px := make([]strip.Color, len(f.Pixels))
	copy(px, f.Pixels)
	m.frames = append(m.frames, strip.Frame{Pixels: px, Brightness: f.Brightness})
	return nil
}

// Frames returns the recorded frames in commit order.
func (m *Memory) Frames() []strip.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]strip.Frame, len(m.frames))
	copy(out, m.frames)
	return out
}

// Last returns the most recent frame, if any.
func (m *Memory) Last() (strip.Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return strip.Frame{}, false
	}
	return m.frames[len(m.frames)-1], true
}

// Reset drops the recorded frames.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.frames = nil
	m.mu.Unlock()
}

// Close marks the recorder closed; later renders fail.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
