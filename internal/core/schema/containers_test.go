package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullable(t *testing.T) {
	typ := Nullable(Int())

	t.Run("null survives both directions", func(t *testing.T) {
		raw, err := typ.Serialize(nil)
		require.NoError(t, err)
		require.Nil(t, raw)

		require.NoError(t, typ.Verify(nil))
		v, err := typ.decode(nil, nil)
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("non-null delegates to inner", func(t *testing.T) {
		require.Equal(t, int64(9), roundTrip(t, typ, int64(9)))
		require.ErrorIs(t, typ.Verify("nope"), ErrBadShape)
	})
}

func TestArray(t *testing.T) {
	typ := Array(Int())

	t.Run("preserves order", func(t *testing.T) {
		out := roundTrip(t, typ, []any{int64(3), int64(1), int64(2)})
		require.Equal(t, []any{int64(3), int64(1), int64(2)}, out)
	})

	t.Run("empty array", func(t *testing.T) {
		require.Equal(t, []any{}, roundTrip(t, typ, []any{}))
	})

	t.Run("element error names index", func(t *testing.T) {
		err := typ.Verify([]any{int64(1), "two"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "index 1")
	})

	t.Run("nil element rejected for non-nullable inner", func(t *testing.T) {
		err := typ.Verify([]any{int64(1), nil})
		require.ErrorIs(t, err, ErrNullValue)
	})

	t.Run("nil element allowed for nullable inner", func(t *testing.T) {
		nullable := Array(Nullable(Int()))
		require.NoError(t, nullable.Verify([]any{int64(1), nil}))
		out := roundTrip(t, nullable, []any{int64(1), nil})
		require.Equal(t, []any{int64(1), nil}, out)
	})
}

func TestKeyValueMap(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		typ := KeyValueMap(Uint(), true)
		in := map[string]any{"belt": uint64(4), "miner": uint64(2)}
		require.Equal(t, in, roundTrip(t, typ, in))
	})

	t.Run("value error names key", func(t *testing.T) {
		typ := KeyValueMap(Uint(), true)
		err := typ.Verify(map[string]any{"belt": "broken"})
		require.Error(t, err)
		require.Contains(t, err.Error(), `key "belt"`)
	})

	t.Run("empty values pruned when configured", func(t *testing.T) {
		inner := KeyValueMap(Uint(), true)
		typ := KeyValueMap(inner, false)
		raw, err := typ.Serialize(map[string]any{
			"kept":   map[string]any{"a": uint64(1)},
			"pruned": map[string]any{},
		})
		require.NoError(t, err)
		m := raw.(map[string]any)
		require.Contains(t, m, "kept")
		require.NotContains(t, m, "pruned")
	})

	t.Run("empty values kept by default", func(t *testing.T) {
		inner := KeyValueMap(Uint(), true)
		typ := KeyValueMap(inner, true)
		raw, err := typ.Serialize(map[string]any{"pruned": map[string]any{}})
		require.NoError(t, err)
		require.Contains(t, raw.(map[string]any), "pruned")
	})
}

func TestPair(t *testing.T) {
	typ := Pair(String(), Uint())

	t.Run("round trip", func(t *testing.T) {
		out := roundTrip(t, typ, [2]any{"belt", uint64(7)})
		require.Equal(t, [2]any{"belt", uint64(7)}, out)
	})

	t.Run("slot errors are positional", func(t *testing.T) {
		err := typ.Verify([]any{"belt", "seven"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "second slot")
	})

	t.Run("length must be exactly two", func(t *testing.T) {
		require.ErrorIs(t, typ.Verify([]any{"belt"}), ErrBadShape)
		require.ErrorIs(t, typ.Verify([]any{"belt", uint64(1), uint64(2)}), ErrBadShape)
	})
}
