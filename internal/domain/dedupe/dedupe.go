// Package dedupe remembers recently handled message IDs so that redelivered
// events are not animated twice.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultMaxSize is the number of IDs remembered when no size is given.
const DefaultMaxSize = 1024

// Deduper records seen message IDs.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen. Empty IDs are never recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a redelivery is handled again. Used when an
	// event was recorded but could not be queued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps the most recent maxSize IDs in a ring and evicts the
// oldest first. With maxSize <= 0 it never evicts.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]uint64 // id -> sequence number of its slot
	ring    []string
	seq     uint64
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]uint64)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	if id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize > 0 {
		slot := int(d.seq % uint64(d.maxSize))
		if old := d.ring[slot]; old != "" {
			// the slot may hold an ID that was unrecorded and seen again since
			if s, ok := d.seen[old]; ok && s == d.seq-uint64(d.maxSize) {
				delete(d.seen, old)
				d.size.Add(-1)
			}
		}
		d.ring[slot] = id
	}
	d.seen[id] = d.seq
	d.seq++
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

// Size returns the current number of remembered IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
