package registry

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Core registry errors
var (
	ErrDuplicateID = errors.New("type id already registered")
	ErrEmptyID     = errors.New("type id is empty")
	ErrNilFactory  = errors.New("type factory is nil")
)

// Factory constructs a fresh, zero-valued instance of a registered type.
type Factory func() any

// Entry is the handle for one registered type. Entries are immutable after
// registration and double as metaclass values: serializing "which kind of
// thing" persists the entry's id rather than an instance.
type Entry struct {
	id    string
	build Factory
}

// ID returns the stable string identifier the type was registered under.
func (e *Entry) ID() string { return e.id }

// New constructs a fresh instance of the registered type.
func (e *Entry) New() any { return e.build() }

// Registry maps stable type identifiers to factories, covering both directions
// of the polymorphic persistence contract: id -> fresh instance, and
// entry -> id. All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register binds id to build and returns the resulting entry. Registering an
// id twice is a configuration error and fails; the first registration stays.
func (r *Registry) Register(id string, build Factory) (*Entry, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if build == nil {
		return nil, errors.Wrapf(ErrNilFactory, "id %q", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; ok {
		return nil, errors.Wrapf(ErrDuplicateID, "id %q", id)
	}
	e := &Entry{id: id, build: build}
	r.entries[id] = e
	return e, nil
}

// MustRegister is Register for static initialization blocks; it panics on a
// registration conflict instead of returning it.
func (r *Registry) MustRegister(id string, build Factory) *Entry {
	e, err := r.Register(id, build)
	if err != nil {
		panic(err)
	}
	return e
}

// Resolve looks up the entry registered under id.
func (r *Registry) Resolve(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Resolve(id)
	return ok
}

// IDs returns all registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := lo.Keys(r.entries)
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
