package save

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// backupServer is an in-process websocket endpoint that records received
// snapshots and answers with the given ack.
func backupServer(t *testing.T, ack string) (url string, received *[][]byte) {
	t.Helper()

	var got [][]byte
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		got = append(got, data)
		_ = conn.WriteMessage(websocket.TextMessage, []byte(ack))
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http"), &got
}

func TestBackupClient(t *testing.T) {
	t.Run("push delivers the snapshot and accepts the ack", func(t *testing.T) {
		url, received := backupServer(t, backupAck)
		c := NewBackupClient(BackupConfig{URL: url, Timeout: 2 * time.Second}, nil)

		require.NoError(t, c.Push(context.Background(), []byte("snapshot-bytes")))
		require.Len(t, *received, 1)
		require.Equal(t, []byte("snapshot-bytes"), (*received)[0])
	})

	t.Run("non-ack response is a rejection", func(t *testing.T) {
		url, _ := backupServer(t, "quota exceeded")
		c := NewBackupClient(BackupConfig{URL: url, Timeout: 2 * time.Second}, nil)

		err := c.Push(context.Background(), []byte("snapshot"))
		require.ErrorIs(t, err, ErrBackupRejected)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		c := NewBackupClient(BackupConfig{URL: "ws://127.0.0.1:1/push", Timeout: time.Second}, nil)
		require.Error(t, c.Push(context.Background(), []byte("snapshot")))
	})

	t.Run("manager treats backup failure as non-fatal", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backup = BackupConfig{Enabled: true, URL: "ws://127.0.0.1:1/push", Timeout: time.Second}
		m := NewManager(cfg, nil)

		var buf strings.Builder
		_, err := m.Save(context.Background(), liveState(), &buf)
		require.NoError(t, err, "a failed backup must not fail the local save")
		require.NotEmpty(t, buf.String())
	})
}
