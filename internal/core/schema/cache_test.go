package schema

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Run("builds once and returns the identical instance", func(t *testing.T) {
		c := NewCache()
		builds := 0
		build := func() *Schema {
			builds++
			return New().Add("level", Uint())
		}

		first := c.Get("upgrade-state", nil, build)
		second := c.Get("upgrade-state", nil, build)

		require.Same(t, first, second)
		require.Equal(t, 1, builds)
		require.Equal(t, 1, c.Len())
	})

	t.Run("distinct ids get distinct schemas", func(t *testing.T) {
		c := NewCache()
		a := c.Get("a", nil, func() *Schema { return New().Add("x", Int()) })
		b := c.Get("b", nil, func() *Schema { return New().Add("x", Int()) })
		require.NotSame(t, a, b)
		require.Equal(t, 2, c.Len())
	})

	t.Run("concurrent first access constructs exactly one schema", func(t *testing.T) {
		c := NewCache()
		var mu sync.Mutex
		builds := 0

		const workers = 16
		results := make([]*Schema, workers)
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func(i int) {
				defer wg.Done()
				results[i] = c.Get("shared", nil, func() *Schema {
					mu.Lock()
					builds++
					mu.Unlock()
					return New().Add("x", Int())
				})
			}(i)
		}
		wg.Wait()

		require.Equal(t, 1, builds)
		for _, s := range results {
			require.Same(t, results[0], s)
		}
	})

	t.Run("dev checks flag a second claimant in strict mode", func(t *testing.T) {
		StrictChecks = true
		defer func() { StrictChecks = false }()

		c := NewCache(WithDevChecks())
		build := func() *Schema { return New() }

		c.Get("clash", &upgradeState{}, build)
		require.Panics(t, func() {
			c.Get("clash", &bagObject{}, build)
		})
	})

	t.Run("same claimant never trips the dev check", func(t *testing.T) {
		StrictChecks = true
		defer func() { StrictChecks = false }()

		c := NewCache(WithDevChecks())
		build := func() *Schema { return New() }

		require.NotPanics(t, func() {
			c.Get("stable", &upgradeState{}, build)
			c.Get("stable", &upgradeState{}, build)
		})
	})

	t.Run("without dev checks a collision passes silently", func(t *testing.T) {
		c := NewCache()
		build := func() *Schema { return New() }
		require.NotPanics(t, func() {
			c.Get("clash", &upgradeState{}, build)
			c.Get("clash", &bagObject{}, build)
		})
	})
}
