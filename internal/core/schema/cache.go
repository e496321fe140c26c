package schema

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/zeusync/savestate/internal/core/observability/log"
)

// Cache memoizes one Schema per class identifier for the process lifetime.
// The schema factory for an id runs exactly once even under concurrent first
// access; later calls return the stored instance.
//
// The cache is an owned value threaded through the application, not a hidden
// global, so tests can build a fresh one per case.
type Cache struct {
	mu      sync.Mutex
	schemas map[string]*Schema
	owners  map[string]string
	group   singleflight.Group

	dev bool
	log log.Log
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithDevChecks enables the duplicate-identifier diagnostic: the cache
// records which concrete type claimed each id and reports a second, different
// claimant. Identifier collisions across unrelated types would otherwise load
// one class's bytes through another class's schema without a sound.
func WithDevChecks() CacheOption {
	return func(c *Cache) { c.dev = true }
}

// WithLogger routes cache diagnostics to l.
func WithLogger(l log.Log) CacheOption {
	return func(c *Cache) { c.log = l }
}

// NewCache creates an empty Cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		schemas: make(map[string]*Schema),
		owners:  make(map[string]string),
		log:     log.Provide(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the schema cached under id, invoking build on the first access.
// owner is the object claiming the id; it feeds the dev-mode collision
// diagnostic and may be nil when checks are off.
func (c *Cache) Get(id string, owner any, build func() *Schema) *Schema {
	if c.dev {
		c.checkClaim(id, owner)
	}

	c.mu.Lock()
	if s, ok := c.schemas[id]; ok {
		c.mu.Unlock()
		return s
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(id, func() (any, error) {
		s := build()
		c.mu.Lock()
		if prior, ok := c.schemas[id]; ok {
			s = prior
		} else {
			c.schemas[id] = s
		}
		c.mu.Unlock()
		return s, nil
	})
	return v.(*Schema)
}

// Len returns the number of cached schemas.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.schemas)
}

func (c *Cache) checkClaim(id string, owner any) {
	claimant := fmt.Sprintf("%T", owner)

	c.mu.Lock()
	prior, claimed := c.owners[id]
	if !claimed {
		c.owners[id] = claimant
	}
	c.mu.Unlock()

	if claimed && prior != claimant {
		c.log.Error("schema id claimed by two different types",
			log.String("id", id),
			log.String("first", prior),
			log.String("second", claimant))
		if StrictChecks {
			panic(fmt.Sprintf("schema id %q claimed by both %s and %s", id, prior, claimant))
		}
	}
}
