package schema

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Primitive leaf descriptors. Each serializes to a plain scalar (or, for
// vectors, a small map literal) and coerces the numeric representations a
// JSON decode pass produces.

type intType struct{}

// Int describes a signed integer field; the live form is int64.
func Int() Type { return intType{} }

func (intType) Serialize(v any) (any, error) {
	n, ok := asInt64(v)
	if !ok {
		return nil, errors.Newf("expected integer, got %T", v)
	}
	return n, nil
}

func (intType) Verify(raw any) error {
	if _, ok := asInt64(raw); !ok {
		return errors.Wrapf(ErrBadShape, "expected integer, got %T", raw)
	}
	return nil
}

func (intType) AllowNil() bool { return false }

func (intType) decode(_ *DecodeContext, raw any) (any, error) {
	n, _ := asInt64(raw)
	return n, nil
}

type uintType struct{}

// Uint describes a non-negative integer field; the live form is uint64.
func Uint() Type { return uintType{} }

func (uintType) Serialize(v any) (any, error) {
	n, ok := asUint64(v)
	if !ok {
		return nil, errors.Newf("expected unsigned integer, got %v (%T)", v, v)
	}
	return n, nil
}

func (uintType) Verify(raw any) error {
	if _, ok := asUint64(raw); !ok {
		return errors.Wrapf(ErrBadShape, "expected unsigned integer, got %v (%T)", raw, raw)
	}
	return nil
}

func (uintType) AllowNil() bool { return false }

func (uintType) decode(_ *DecodeContext, raw any) (any, error) {
	n, _ := asUint64(raw)
	return n, nil
}

type floatType struct{}

// Float describes a floating point field; the live form is float64.
func Float() Type { return floatType{} }

func (floatType) Serialize(v any) (any, error) {
	f, ok := asFloat64(v)
	if !ok {
		return nil, errors.Newf("expected number, got %T", v)
	}
	return f, nil
}

func (floatType) Verify(raw any) error {
	if _, ok := asFloat64(raw); !ok {
		return errors.Wrapf(ErrBadShape, "expected number, got %T", raw)
	}
	return nil
}

func (floatType) AllowNil() bool { return false }

func (floatType) decode(_ *DecodeContext, raw any) (any, error) {
	f, _ := asFloat64(raw)
	return f, nil
}

type ufloatType struct{}

// UFloat describes a non-negative floating point field; the live form is
// float64.
func UFloat() Type { return ufloatType{} }

func (ufloatType) Serialize(v any) (any, error) {
	f, ok := asFloat64(v)
	if !ok || f < 0 {
		return nil, errors.Newf("expected non-negative number, got %v (%T)", v, v)
	}
	return f, nil
}

func (ufloatType) Verify(raw any) error {
	f, ok := asFloat64(raw)
	if !ok || f < 0 {
		return errors.Wrapf(ErrBadShape, "expected non-negative number, got %v (%T)", raw, raw)
	}
	return nil
}

func (ufloatType) AllowNil() bool { return false }

func (ufloatType) decode(_ *DecodeContext, raw any) (any, error) {
	f, _ := asFloat64(raw)
	return f, nil
}

type stringType struct{}

// String describes a string field.
func String() Type { return stringType{} }

func (stringType) Serialize(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.Newf("expected string, got %T", v)
	}
	return s, nil
}

func (stringType) Verify(raw any) error {
	if _, ok := raw.(string); !ok {
		return errors.Wrapf(ErrBadShape, "expected string, got %T", raw)
	}
	return nil
}

func (stringType) AllowNil() bool { return false }

func (stringType) decode(_ *DecodeContext, raw any) (any, error) {
	return raw.(string), nil
}

type boolType struct{}

// Bool describes a boolean field.
func Bool() Type { return boolType{} }

func (boolType) Serialize(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, errors.Newf("expected bool, got %T", v)
	}
	return b, nil
}

func (boolType) Verify(raw any) error {
	if _, ok := raw.(bool); !ok {
		return errors.Wrapf(ErrBadShape, "expected bool, got %T", raw)
	}
	return nil
}

func (boolType) AllowNil() bool { return false }

func (boolType) decode(_ *DecodeContext, raw any) (any, error) {
	return raw.(bool), nil
}

type vectorType struct{}

// Vec describes a 2D vector field; the live form is Vector and the raw form
// is {"x": <number>, "y": <number>}.
func Vec() Type { return vectorType{} }

func (vectorType) Serialize(v any) (any, error) {
	vec, ok := v.(Vector)
	if !ok {
		if p, isPtr := v.(*Vector); isPtr && p != nil {
			vec, ok = *p, true
		}
	}
	if !ok {
		return nil, errors.Newf("expected Vector, got %T", v)
	}
	return map[string]any{"x": vec.X, "y": vec.Y}, nil
}

func (vectorType) Verify(raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return errors.Wrapf(ErrBadShape, "expected vector object, got %T", raw)
	}
	for _, axis := range [2]string{"x", "y"} {
		c, present := m[axis]
		if !present {
			return errors.Wrapf(ErrBadShape, "vector missing %q component", axis)
		}
		if _, numeric := asFloat64(c); !numeric {
			return errors.Wrapf(ErrBadShape, "vector %q component is not a number", axis)
		}
	}
	return nil
}

func (vectorType) AllowNil() bool { return false }

func (vectorType) decode(_ *DecodeContext, raw any) (any, error) {
	m := raw.(map[string]any)
	x, _ := asFloat64(m["x"])
	y, _ := asFloat64(m["y"])
	return Vector{X: x, Y: y}, nil
}

type enumType struct {
	values  []string
	members map[string]struct{}
}

// Enum describes a field restricted to a fixed set of string literals.
func Enum(values ...string) Type {
	t := enumType{
		values:  append([]string(nil), values...),
		members: make(map[string]struct{}, len(values)),
	}
	sort.Strings(t.values)
	for _, v := range t.values {
		t.members[v] = struct{}{}
	}
	return t
}

func (t enumType) Serialize(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.Newf("expected enum string, got %T", v)
	}
	if _, member := t.members[s]; !member {
		return nil, errors.Newf("value %q is not one of %v", s, t.values)
	}
	return s, nil
}

func (t enumType) Verify(raw any) error {
	s, ok := raw.(string)
	if !ok {
		return errors.Wrapf(ErrBadShape, "expected enum string, got %T", raw)
	}
	if _, member := t.members[s]; !member {
		return errors.Wrapf(ErrBadShape, "value %q is not one of %v", s, t.values)
	}
	return nil
}

func (enumType) AllowNil() bool { return false }

func (enumType) decode(_ *DecodeContext, raw any) (any, error) {
	return raw.(string), nil
}
