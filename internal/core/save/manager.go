package save

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/zeusync/savestate/internal/core/observability/log"
	"github.com/zeusync/savestate/internal/core/schema"
)

// Manager drives whole-file save and load on top of the schema engine. Load
// is verify-gated: header, checksum and a dry-run schema pass must all hold
// before the first field is assigned, so a corrupt file never partially
// applies to the target graph.
type Manager struct {
	cfg    Config
	log    log.Log
	backup *BackupClient
}

// NewManager creates a Manager. A nil logger falls back to the process
// logger. Config.Strict only ever raises schema.StrictChecks; it is a
// process-wide ratchet, never lowered here, so one strict manager cannot be
// silently relaxed by a lenient one created later.
func NewManager(cfg Config, l log.Log) *Manager {
	if l == nil {
		l = log.Provide()
	}
	if cfg.Strict {
		schema.StrictChecks = true
	}
	m := &Manager{cfg: cfg, log: l}
	if cfg.Backup.Enabled {
		m.backup = NewBackupClient(cfg.Backup, l)
	}
	return m
}

// Save serializes root, packs it into the container format and writes it to
// w. When a backup client is configured the packed bytes are pushed
// best-effort after the local write; a backup failure is logged, never
// returned.
func (m *Manager) Save(ctx context.Context, root schema.Object, w io.Writer) (*Header, error) {
	payload, err := schema.SerializeObject(root)
	if err != nil {
		return nil, errors.Wrapf(err, "serializing %q", root.SchemaID())
	}
	f, err := Pack(payload)
	if err != nil {
		return nil, err
	}
	data, err := f.Serialize()
	if err != nil {
		return nil, errors.Wrap(err, "encoding save file")
	}
	if _, err = w.Write(data); err != nil {
		return nil, errors.Wrap(err, "writing save file")
	}

	m.log.Info("save written",
		log.String("id", f.Header.ID),
		log.String("class", root.SchemaID()),
		log.Int("bytes", len(data)))

	if m.backup != nil {
		if err = m.backup.Push(ctx, data); err != nil {
			m.log.Warn("save backup push failed", log.Err(err))
		}
	}
	return &f.Header, nil
}

// Verify reads a save file and runs every pre-flight gate short of mutation:
// container decode, version window, checksum, and the shape-only schema walk
// against root's schema. root is never modified.
func (m *Manager) Verify(r io.Reader, root schema.Object) (*Header, error) {
	f, err := m.read(r)
	if err != nil {
		return nil, err
	}
	if err = schema.VerifyObject(root, f.Payload); err != nil {
		return &f.Header, errors.Wrapf(err, "save %q", f.Header.ID)
	}
	return &f.Header, nil
}

// Load runs the full Verify gate and then deserializes the payload into
// root. On any error root must be treated as tainted and discarded; the
// schema engine does not roll back fields assigned before a failure.
func (m *Manager) Load(r io.Reader, root schema.Object, dc *schema.DecodeContext) (*Header, error) {
	f, err := m.read(r)
	if err != nil {
		return nil, err
	}
	if err = schema.VerifyObject(root, f.Payload); err != nil {
		return &f.Header, errors.Wrapf(err, "save %q failed pre-flight verify", f.Header.ID)
	}
	if err = schema.DeserializeObject(dc, root, f.Payload); err != nil {
		return &f.Header, errors.Wrapf(err, "loading save %q", f.Header.ID)
	}

	m.log.Info("save loaded",
		log.String("id", f.Header.ID),
		log.String("class", root.SchemaID()))
	return &f.Header, nil
}

func (m *Manager) read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading save file")
	}
	var f File
	if err = f.Deserialize(data); err != nil {
		return nil, err
	}
	if err = f.Check(m.cfg.MinVersion); err != nil {
		return nil, err
	}
	return &f, nil
}
