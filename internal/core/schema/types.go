package schema

import (
	"encoding/json"
	"math"

	"github.com/zeusync/savestate/internal/core/models"
	"github.com/zeusync/savestate/internal/core/observability/log"
)

// Type is one data type descriptor: the serialize/verify/deserialize behavior
// governing a single schema field. Implementations are immutable after
// construction and safe to share across any number of objects and concurrent
// walks.
//
// The variant set is closed; the unexported decode method keeps outside
// packages from adding descriptors the engine does not know about.
type Type interface {
	// Serialize converts a well-typed live value into its raw, JSON-compatible
	// form. A value of the wrong kind is a programming error, reported as an
	// error rather than a panic so a production save can proceed best-effort.
	Serialize(v any) (any, error)

	// Verify checks a raw value's shape without constructing anything. It is
	// the dry-run half of deserialization, used to pre-flight whole payloads.
	Verify(raw any) error

	// AllowNil reports whether a null raw value is acceptable. Only the
	// Nullable wrapper returns true; the engine rejects null for everything
	// else before the descriptor is consulted.
	AllowNil() bool

	// decode converts a verified raw value into its live form. Resolution
	// failures (entities, class tags) can still surface here.
	decode(dc *DecodeContext, raw any) (any, error)
}

// DecodeContext carries the collaborators a deserialization pass needs. It is
// threaded through every descriptor so entity references can resolve against
// the live world. The zero value is usable for payloads without entity
// references.
type DecodeContext struct {
	// Entities resolves persisted entity ids back to live entities. May be nil
	// when the schema contains no entity references.
	Entities models.EntityResolver
	// Log receives diagnostics; nil means silent.
	Log log.Log
}

func (dc *DecodeContext) logger() log.Log {
	if dc == nil || dc.Log == nil {
		return log.Nop()
	}
	return dc.Log
}

// Vector is the live form of the 2D vector primitive.
type Vector struct {
	X float64
	Y float64
}

// deserializeValue runs the full per-field pipeline: verify the raw shape,
// convert it, assign into the object's field. This is the engine-side face of
// a descriptor's deserialize-with-verify operation.
func deserializeValue(dc *DecodeContext, t Type, obj Object, field string, raw any) error {
	if err := t.Verify(raw); err != nil {
		return err
	}
	v, err := t.decode(dc, raw)
	if err != nil {
		return err
	}
	return obj.SetField(field, v)
}

// Raw numeric coercion. Payloads decoded from JSON carry numbers as float64
// or json.Number; live Go values show up as any integer kind. Descriptors
// accept all of them.

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float32:
		return asInt64(float64(n))
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	default:
		i, ok := asInt64(v)
		if !ok || i < 0 {
			return 0, false
		}
		return uint64(i), true
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		i, ok := asInt64(v)
		if !ok {
			return 0, false
		}
		return float64(i), true
	}
}
