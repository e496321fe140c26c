package save

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/zeusync/savestate/pkg/encoding"
)

// FormatVersion is the current on-disk container version.
const FormatVersion = 1

// Container format errors
var (
	ErrChecksumMismatch   = errors.New("payload checksum mismatch")
	ErrUnsupportedVersion = errors.New("unsupported save format version")
	ErrEmptyFile          = errors.New("save file is empty")
)

// Header is the save container's metadata block. The checksum covers the
// canonical (sorted-key) JSON bytes of the payload, so tampering or
// truncation is caught before any schema work happens.
type Header struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Checksum  uint64    `json:"checksum"`
}

// File is one complete save: header plus the raw serialized object graph.
type File struct {
	Header  Header         `json:"header"`
	Payload map[string]any `json:"payload"`
}

var _ encoding.Serializable = (*File)(nil)

// Pack wraps a serialized payload into a File with a fresh id, timestamp and
// checksum.
func Pack(payload map[string]any) (*File, error) {
	sum, err := payloadChecksum(payload)
	if err != nil {
		return nil, err
	}
	return &File{
		Header: Header{
			Version:   FormatVersion,
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			Checksum:  sum,
		},
		Payload: payload,
	}, nil
}

// Serialize encodes the whole file as canonical JSON.
func (f *File) Serialize() ([]byte, error) {
	return encoding.Marshal(f)
}

// Deserialize decodes data into f. Only structural JSON validity is checked
// here; run VerifyChecksum and a schema verify pass before trusting the
// payload.
func (f *File) Deserialize(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if err := encoding.Unmarshal(data, f); err != nil {
		return errors.Wrap(err, "malformed save file")
	}
	return nil
}

// Check runs the container-level gates shared by Manager loads and external
// tooling: the version window and the payload checksum.
func (f *File) Check(minVersion int) error {
	if f.Header.Version > FormatVersion || f.Header.Version < minVersion {
		return errors.Wrapf(ErrUnsupportedVersion,
			"version %d, supported %d..%d", f.Header.Version, minVersion, FormatVersion)
	}
	return f.VerifyChecksum()
}

// VerifyChecksum recomputes the payload checksum and compares it with the
// header's.
func (f *File) VerifyChecksum() error {
	sum, err := payloadChecksum(f.Payload)
	if err != nil {
		return err
	}
	if sum != f.Header.Checksum {
		return errors.Wrapf(ErrChecksumMismatch, "want %x, got %x", f.Header.Checksum, sum)
	}
	return nil
}

func payloadChecksum(payload map[string]any) (uint64, error) {
	data, err := encoding.Marshal(payload)
	if err != nil {
		return 0, errors.Wrap(err, "encoding payload for checksum")
	}
	return xxhash.Sum64(data), nil
}
