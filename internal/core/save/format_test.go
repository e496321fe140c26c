package save

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	payload := map[string]any{"level": 3, "reward": "belt"}

	t.Run("pack stamps header and checksum", func(t *testing.T) {
		f, err := Pack(payload)
		require.NoError(t, err)
		require.Equal(t, FormatVersion, f.Header.Version)
		require.NotEmpty(t, f.Header.ID)
		require.False(t, f.Header.CreatedAt.IsZero())
		require.NotZero(t, f.Header.Checksum)
		require.NoError(t, f.VerifyChecksum())
	})

	t.Run("round trip through bytes", func(t *testing.T) {
		f, err := Pack(payload)
		require.NoError(t, err)
		data, err := f.Serialize()
		require.NoError(t, err)

		var restored File
		require.NoError(t, restored.Deserialize(data))
		require.Equal(t, f.Header.ID, restored.Header.ID)
		require.Equal(t, f.Header.Checksum, restored.Header.Checksum)
		require.NoError(t, restored.VerifyChecksum())
	})

	t.Run("checksum is deterministic across encode cycles", func(t *testing.T) {
		a, err := Pack(map[string]any{"b": 2, "a": 1, "c": map[string]any{"y": 2, "x": 1}})
		require.NoError(t, err)
		b, err := Pack(map[string]any{"c": map[string]any{"x": 1, "y": 2}, "a": 1, "b": 2})
		require.NoError(t, err)
		require.Equal(t, a.Header.Checksum, b.Header.Checksum)
	})

	t.Run("check gates version window and checksum", func(t *testing.T) {
		f, err := Pack(payload)
		require.NoError(t, err)
		require.NoError(t, f.Check(1))

		require.ErrorIs(t, f.Check(FormatVersion+1), ErrUnsupportedVersion)

		f.Header.Version = FormatVersion + 1
		require.ErrorIs(t, f.Check(1), ErrUnsupportedVersion)

		f.Header.Version = FormatVersion
		f.Header.Checksum++
		require.ErrorIs(t, f.Check(1), ErrChecksumMismatch)
	})

	t.Run("tampered payload detected", func(t *testing.T) {
		f, err := Pack(payload)
		require.NoError(t, err)
		f.Payload["level"] = 99
		require.ErrorIs(t, f.VerifyChecksum(), ErrChecksumMismatch)
	})

	t.Run("malformed bytes", func(t *testing.T) {
		var f File
		require.ErrorIs(t, f.Deserialize(nil), ErrEmptyFile)
		require.Error(t, f.Deserialize([]byte("{not json")))
	})
}
