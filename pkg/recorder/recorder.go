package recorder

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/flightrec/flightrec/pkg/event"
)

// Recorder owns the set of recordings in a process and fans captured events
// out to the running ones. It is safe for concurrent use.
type Recorder struct {
	mu         sync.RWMutex
	nextID     int64
	recordings []*Recording // creation order
	catalog    *event.Catalog
}

// New creates a recorder backed by the given event-type catalog.
func New(catalog *event.Catalog) *Recorder {
	return &Recorder{nextID: 1, catalog: catalog}
}

// Catalog returns the event-type catalog the recorder was created with.
func (rc *Recorder) Catalog() *event.Catalog {
	return rc.catalog
}

// NewRecording creates a recording in the NEW state. An empty name defaults
// to the recording's id rendered as text.
func (rc *Recorder) NewRecording(name string) *Recording {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	r := newRecording(rc.nextID, name)
	rc.nextID++
	rc.recordings = append(rc.recordings, r)
	return r
}

// FindRecording resolves a recording by name or id. Name matches win over id
// matches; the first recording with a matching name is returned.
func (rc *Recorder) FindRecording(nameOrID string) (*Recording, error) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	for _, r := range rc.recordings {
		if r.Name() == nameOrID {
			return r, nil
		}
	}
	if id, err := strconv.ParseInt(nameOrID, 10, 64); err == nil {
		for _, r := range rc.recordings {
			if r.ID() == id {
				return r, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, nameOrID)
}

// Recordings returns a snapshot of all recordings in creation order. Closed
// recordings are included; callers decide whether to filter them.
func (rc *Recorder) Recordings() []*Recording {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	out := make([]*Recording, len(rc.recordings))
	copy(out, rc.recordings)
	return out
}

// Remove detaches a recording from the recorder and closes it.
func (rc *Recorder) Remove(r *Recording) {
	rc.mu.Lock()
	for i, candidate := range rc.recordings {
		if candidate == r {
			rc.recordings = append(rc.recordings[:i], rc.recordings[i+1:]...)
			break
		}
	}
	rc.mu.Unlock()
	_ = r.Close()
}

// Emit delivers an event to every running recording that has the event's
// type enabled. Events of unregistered types are delivered too; the catalog
// constrains reporting, not capture.
func (rc *Recorder) Emit(e event.Event) {
	for _, r := range rc.Recordings() {
		r.record(e)
	}
}
