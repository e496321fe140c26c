package models

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// World registry errors
var (
	ErrDuplicateEntity = errors.New("entity uid already present")
	ErrNilEntity       = errors.New("entity is nil")
)

var _ EntityResolver = (*World)(nil)

// World is an in-memory uid-keyed entity registry. It is the resolver handed
// to a load pass so persisted entity references can be rebound to live
// entities. All methods are safe for concurrent use, but the caller must keep
// the world stable for the duration of a single load pass.
type World struct {
	mu       sync.RWMutex
	entities map[EntityID]Entity
	nextUID  atomic.Uint64
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{entities: make(map[EntityID]Entity)}
}

// NextUID hands out the next free uid for a freshly constructed entity.
func (w *World) NextUID() EntityID {
	return EntityID(w.nextUID.Add(1))
}

// Add registers a live entity under its own uid.
func (w *World) Add(e Entity) error {
	if e == nil {
		return ErrNilEntity
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.entities[e.UID()]; ok {
		return errors.Wrapf(ErrDuplicateEntity, "uid %d", e.UID())
	}
	w.entities[e.UID()] = e
	return nil
}

// ResolveEntity implements EntityResolver.
func (w *World) ResolveEntity(id EntityID) (Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	return e, ok
}

// Remove drops the entity registered under id, reporting whether it existed.
func (w *World) Remove(id EntityID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entities[id]
	delete(w.entities, id)
	return ok
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}
