package schema

import "github.com/cockroachdb/errors"

// Data errors reported during verify/deserialize walks. These travel up the
// call chain as wrapped error values; corrupt save data must never panic the
// load pipeline.
var (
	// ErrMissingPayload marks a deserialize call with no raw data at all.
	ErrMissingPayload = errors.New("missing serialized payload")
	// ErrMissingField marks a payload lacking a key the schema declares.
	ErrMissingField = errors.New("missing field in payload")
	// ErrNullValue marks a null payload value on a non-nullable field.
	ErrNullValue = errors.New("null value on non-nullable field")
	// ErrBadShape marks a leaf value of the wrong kind or range.
	ErrBadShape = errors.New("value has wrong shape")
	// ErrUnknownClass marks a class tag with no registry entry.
	ErrUnknownClass = errors.New("unknown class id")
	// ErrUnresolvedEntity marks a strong entity reference with no live target.
	ErrUnresolvedEntity = errors.New("unresolved entity reference")
)
