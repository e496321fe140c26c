package save

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"

	"github.com/zeusync/savestate/internal/core/observability/log"
)

// Backup errors
var (
	ErrBackupRejected = errors.New("backup endpoint rejected snapshot")
)

const backupAck = "ok"

// BackupClient pushes packed save files to a remote endpoint over a
// websocket. Each push is one short-lived connection: dial, send the snapshot
// as a single binary frame, wait for the ack frame, close.
type BackupClient struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
	log     log.Log
}

// NewBackupClient creates a client for cfg. A nil logger falls back to the
// process logger.
func NewBackupClient(cfg BackupConfig, l log.Log) *BackupClient {
	if l == nil {
		l = log.Provide()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackupClient{
		url:     cfg.URL,
		timeout: timeout,
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
		},
		log: l,
	}
}

// Push uploads one packed save file and waits for the endpoint's ack.
func (c *BackupClient) Push(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return errors.Wrapf(err, "dialing backup endpoint %q", c.url)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(c.timeout)
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err = conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return errors.Wrap(err, "sending snapshot")
	}
	_, ack, err := conn.ReadMessage()
	if err != nil {
		return errors.Wrap(err, "waiting for ack")
	}
	if string(ack) != backupAck {
		return errors.Wrapf(ErrBackupRejected, "ack %q", ack)
	}

	c.log.Debug("snapshot backed up", log.Int("bytes", len(data)))
	return nil
}
