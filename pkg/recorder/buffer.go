package recorder

import (
	"time"

	"github.com/flightrec/flightrec/pkg/event"
)

// eventOverhead approximates the fixed per-event cost (timestamp, slice
// header, map header) used for maxSize accounting.
const eventOverhead = 64

// buffer holds captured events in arrival order with approximate byte
// accounting. It is not safe for concurrent use; the owning Recording
// serializes access.
type buffer struct {
	events []event.Event
	sizes  []int64
	bytes  int64
}

func newBuffer() *buffer {
	return &buffer{}
}

// estimateSize approximates the in-memory size of an event in bytes. Exact
// accounting is not worth the cost; the limit is a safety valve, not a quota.
func estimateSize(e event.Event) int64 {
	n := int64(eventOverhead + len(e.ID) + len(e.Type))
	for k, v := range e.Fields {
		n += int64(len(k)) + 16
		if s, ok := v.(string); ok {
			n += int64(len(s))
		}
	}
	return n
}

func (b *buffer) append(e event.Event) {
	size := estimateSize(e)
	b.events = append(b.events, e)
	b.sizes = append(b.sizes, size)
	b.bytes += size
}

// trimToSize drops oldest events until the buffer fits within limit bytes.
// A limit of zero means unlimited.
func (b *buffer) trimToSize(limit int64) {
	if limit == 0 {
		return
	}
	drop := 0
	for drop < len(b.events) && b.bytes > limit {
		b.bytes -= b.sizes[drop]
		drop++
	}
	if drop > 0 {
		b.events = b.events[drop:]
		b.sizes = b.sizes[drop:]
	}
}

// trimToAge drops events older than maxAge relative to now.
func (b *buffer) trimToAge(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)
	drop := 0
	for drop < len(b.events) && b.events[drop].Time.Before(cutoff) {
		b.bytes -= b.sizes[drop]
		drop++
	}
	if drop > 0 {
		b.events = b.events[drop:]
		b.sizes = b.sizes[drop:]
	}
}

// snapshot returns a copy of the buffered events, oldest first.
func (b *buffer) snapshot() []event.Event {
	out := make([]event.Event, len(b.events))
	copy(out, b.events)
	return out
}

func (b *buffer) len() int {
	return len(b.events)
}
