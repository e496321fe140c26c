package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type crate struct{ uid EntityID }

func (c *crate) UID() EntityID { return c.uid }

func TestWorld(t *testing.T) {
	t.Run("add and resolve", func(t *testing.T) {
		w := NewWorld()
		c := &crate{uid: w.NextUID()}
		require.NoError(t, w.Add(c))

		got, ok := w.ResolveEntity(c.uid)
		require.True(t, ok)
		require.Same(t, c, got)
		require.Equal(t, 1, w.Len())
	})

	t.Run("uids are unique and monotonic", func(t *testing.T) {
		w := NewWorld()
		a, b := w.NextUID(), w.NextUID()
		require.Less(t, a, b)
	})

	t.Run("duplicate uid rejected", func(t *testing.T) {
		w := NewWorld()
		require.NoError(t, w.Add(&crate{uid: 7}))
		require.ErrorIs(t, w.Add(&crate{uid: 7}), ErrDuplicateEntity)
	})

	t.Run("nil entity rejected", func(t *testing.T) {
		require.ErrorIs(t, NewWorld().Add(nil), ErrNilEntity)
	})

	t.Run("remove", func(t *testing.T) {
		w := NewWorld()
		require.NoError(t, w.Add(&crate{uid: 3}))
		require.True(t, w.Remove(3))
		require.False(t, w.Remove(3))
		_, ok := w.ResolveEntity(3)
		require.False(t, ok)
	})
}
