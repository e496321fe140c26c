package save

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/savestate/internal/core/schema"
)

// gameState is a Bag-backed root object standing in for a full game graph.
type gameState struct {
	*schema.Bag
	schemaDef *schema.Schema
}

func (g *gameState) SchemaID() string       { return "game-state" }
func (g *gameState) Schema() *schema.Schema { return g.schemaDef }

func gameSchema() *schema.Schema {
	return schema.New().
		Add("tick", schema.Uint()).
		Add("paused", schema.Bool()).
		Add("camera", schema.Vec()).
		Add("reward", schema.Enum("none", "belt"))
}

func freshState(values map[string]any) *gameState {
	return &gameState{Bag: schema.BagOf(values), schemaDef: gameSchema()}
}

func liveState() *gameState {
	return freshState(map[string]any{
		"tick":   uint64(1200),
		"paused": false,
		"camera": schema.Vector{X: 4.5, Y: -2},
		"reward": "belt",
	})
}

func TestManager_SaveLoadRoundTrip(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)

	var buf bytes.Buffer
	header, err := m.Save(context.Background(), liveState(), &buf)
	require.NoError(t, err)
	require.NotNil(t, header)
	require.Equal(t, FormatVersion, header.Version)

	restored := freshState(map[string]any{})
	loaded, err := m.Load(bytes.NewReader(buf.Bytes()), restored, nil)
	require.NoError(t, err)
	require.Equal(t, header.ID, loaded.ID)

	tick, _ := restored.Field("tick")
	require.Equal(t, uint64(1200), tick)
	camera, _ := restored.Field("camera")
	require.Equal(t, schema.Vector{X: 4.5, Y: -2}, camera)
}

func TestManager_Verify(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)

	var buf bytes.Buffer
	_, err := m.Save(context.Background(), liveState(), &buf)
	require.NoError(t, err)

	t.Run("sound file passes without mutation", func(t *testing.T) {
		probe := freshState(map[string]any{})
		_, err := m.Verify(bytes.NewReader(buf.Bytes()), probe)
		require.NoError(t, err)
		require.Zero(t, probe.Bag.Len(), "verify must not assign fields")
	})

	t.Run("corrupt payload caught before any assignment", func(t *testing.T) {
		f, err := Pack(map[string]any{
			"tick":   7,
			"paused": false,
			"camera": map[string]any{"x": 0.0, "y": 0.0},
			"reward": "nuclear",
		})
		require.NoError(t, err)
		data, err := f.Serialize()
		require.NoError(t, err)

		target := freshState(map[string]any{})
		_, err = m.Load(bytes.NewReader(data), target, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), `"reward"`)
		require.Zero(t, target.Bag.Len(), "pre-flight verify must reject before mutating")
	})
}

func TestManager_VersionGate(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)

	var buf bytes.Buffer
	_, err := m.Save(context.Background(), liveState(), &buf)
	require.NoError(t, err)

	var f File
	require.NoError(t, f.Deserialize(buf.Bytes()))

	t.Run("newer format rejected", func(t *testing.T) {
		f.Header.Version = FormatVersion + 1
		data, err := f.Serialize()
		require.NoError(t, err)
		_, err = m.Load(bytes.NewReader(data), freshState(map[string]any{}), nil)
		require.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("older than the configured floor rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinVersion = 2
		strict := NewManager(cfg, nil)
		_, err := strict.Load(bytes.NewReader(buf.Bytes()), freshState(map[string]any{}), nil)
		require.ErrorIs(t, err, ErrUnsupportedVersion)
	})
}

func TestManager_StrictIsARatchet(t *testing.T) {
	prev := schema.StrictChecks
	t.Cleanup(func() { schema.StrictChecks = prev })
	schema.StrictChecks = false

	cfg := DefaultConfig()
	cfg.Strict = true
	NewManager(cfg, nil)
	require.True(t, schema.StrictChecks)

	NewManager(DefaultConfig(), nil)
	require.True(t, schema.StrictChecks,
		"a lenient manager must not relax checks a strict one enabled")
}

func TestManager_TamperedFileRejected(t *testing.T) {
	m := NewManager(DefaultConfig(), nil)

	var buf bytes.Buffer
	_, err := m.Save(context.Background(), liveState(), &buf)
	require.NoError(t, err)

	var f File
	require.NoError(t, f.Deserialize(buf.Bytes()))
	f.Payload["tick"] = 999999
	data, err := f.Serialize()
	require.NoError(t, err)

	_, err = m.Load(bytes.NewReader(data), freshState(map[string]any{}), nil)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}
