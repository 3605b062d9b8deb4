package service

import (
	"sync"
	"time"

	"github.com/okian/headlights/internal/events"
)

// Stats counts dispatch outcomes seen on the event bus.
type Stats struct {
	mu      sync.RWMutex
	fired   map[string]uint64 // by event type
	dropped map[string]uint64 // by reason
	failed  uint64
	last    *LastEvent
	unsubs  []func()
}

// LastEvent describes the most recent animation.
type LastEvent struct {
	Type      string    `json:"type"`
	Pattern   string    `json:"pattern"`
	Color     string    `json:"color"`
	Transport string    `json:"transport"`
	At        time.Time `json:"at"`
	TookMS    int64     `json:"took_ms"`
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Fired   map[string]uint64 `json:"fired"`
	Dropped map[string]uint64 `json:"dropped"`
	Failed  uint64            `json:"failed"`
	Last    *LastEvent        `json:"last,omitempty"`
}

// NewStats subscribes a recorder to bus.
func NewStats(bus *events.Bus) *Stats {
	s := &Stats{
		fired:   make(map[string]uint64),
		dropped: make(map[string]uint64),
	}
	s.unsubs = append(s.unsubs,
		bus.Subscribe(s.onFired),
		bus.Subscribe(s.onDropped),
		bus.Subscribe(s.onFailed),
	)
	return s
}

func (s *Stats) onFired(e events.Fired) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired[e.Event.String()]++
	s.last = &LastEvent{
		Type:      e.Event.String(),
		Pattern:   e.Pattern,
		Color:     e.Color.String(),
		Transport: e.Source,
		At:        e.At,
		TookMS:    e.Took.Milliseconds(),
	}
}

func (s *Stats) onDropped(e events.Dropped) {
	s.mu.Lock()
	s.dropped[e.Reason]++
	s.mu.Unlock()
}

func (s *Stats) onFailed(events.Failed) {
	s.mu.Lock()
	s.failed++
	s.mu.Unlock()
}

// Snapshot copies the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := StatsSnapshot{
		Fired:   make(map[string]uint64, len(s.fired)),
		Dropped: make(map[string]uint64, len(s.dropped)),
		Failed:  s.failed,
	}
	for k, v := range s.fired {
		out.Fired[k] = v
	}
	for k, v := range s.dropped {
		out.Dropped[k] = v
	}
	if s.last != nil {
		last := *s.last
		out.Last = &last
	}
	return out
}

// Close unsubscribes from the bus.
func (s *Stats) Close() {
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil
}
