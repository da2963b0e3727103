package event

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Catalog errors.
var (
	ErrTypeExists   = errors.New("event type already registered")
	ErrTypeNotFound = errors.New("event type not found")
)

// Catalog is a concurrency-safe registry of event types. Enumeration order
// is unspecified; callers that need determinism must sort the snapshot.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*Type)}
}

// Register adds an event type to the catalog. The type name must be unique.
func (c *Catalog) Register(t *Type) error {
	if t.Name == "" {
		return errors.New("event type name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.types[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrTypeExists, t.Name)
	}
	c.types[t.Name] = t
	return nil
}

// Lookup returns the event type with the given name.
func (c *Catalog) Lookup(name string) (*Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	return t, nil
}

// Types returns a snapshot of all registered event types.
func (c *Catalog) Types() []*Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make([]*Type, 0, len(c.types))
	for _, t := range c.types {
		types = append(types, t)
	}
	return types
}

// Len returns the number of registered event types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types)
}

// New creates an event of the given type with a unique id and the current
// timestamp.
func New(typeName string, fields map[string]any) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   typeName,
		Time:   time.Now(),
		Fields: fields,
	}
}
