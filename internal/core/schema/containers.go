package schema

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type nullableType struct {
	inner Type
}

// Nullable wraps another descriptor so that null becomes a legal value in
// both directions.
func Nullable(inner Type) Type { return nullableType{inner: inner} }

func (t nullableType) Serialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return t.inner.Serialize(v)
}

func (t nullableType) Verify(raw any) error {
	if raw == nil {
		return nil
	}
	return t.inner.Verify(raw)
}

func (nullableType) AllowNil() bool { return true }

func (t nullableType) decode(dc *DecodeContext, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	return t.inner.decode(dc, raw)
}

type arrayType struct {
	inner Type
}

// Array describes an ordered sequence whose elements all share one inner
// descriptor. The live form is []any; element order is preserved.
func Array(inner Type) Type { return arrayType{inner: inner} }

func (t arrayType) Serialize(v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errors.Newf("expected []any, got %T", v)
	}
	out := make([]any, len(items))
	for i, item := range items {
		raw, err := t.inner.Serialize(item)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		out[i] = raw
	}
	return out, nil
}

func (t arrayType) Verify(raw any) error {
	items, ok := raw.([]any)
	if !ok {
		return errors.Wrapf(ErrBadShape, "expected array, got %T", raw)
	}
	for i, item := range items {
		if item == nil && !t.inner.AllowNil() {
			return errors.Wrapf(ErrNullValue, "index %d", i)
		}
		if err := t.inner.Verify(item); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
	}
	return nil
}

func (arrayType) AllowNil() bool { return false }

func (t arrayType) decode(dc *DecodeContext, raw any) (any, error) {
	items := raw.([]any)
	out := make([]any, len(items))
	for i, item := range items {
		v, err := t.inner.decode(dc, item)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		out[i] = v
	}
	return out, nil
}

type keyValueMapType struct {
	value        Type
	includeEmpty bool
}

// KeyValueMap describes a string-keyed mapping whose values all share one
// descriptor. The live form is map[string]any. With includeEmpty false,
// entries whose serialized value is an empty object are pruned on serialize;
// absent keys simply deserialize to absent entries.
func KeyValueMap(value Type, includeEmpty bool) Type {
	return keyValueMapType{value: value, includeEmpty: includeEmpty}
}

func (t keyValueMapType) Serialize(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Newf("expected map[string]any, got %T", v)
	}
	out := make(map[string]any, len(m))
	keys := lo.Keys(m)
	sort.Strings(keys)
	for _, k := range keys {
		raw, err := t.value.Serialize(m[k])
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", k)
		}
		if !t.includeEmpty && isEmptyRaw(raw) {
			continue
		}
		out[k] = raw
	}
	return out, nil
}

func (t keyValueMapType) Verify(raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return errors.Wrapf(ErrBadShape, "expected object, got %T", raw)
	}
	keys := lo.Keys(m)
	sort.Strings(keys)
	for _, k := range keys {
		entry := m[k]
		if entry == nil && !t.value.AllowNil() {
			return errors.Wrapf(ErrNullValue, "key %q", k)
		}
		if err := t.value.Verify(entry); err != nil {
			return errors.Wrapf(err, "key %q", k)
		}
	}
	return nil
}

func (keyValueMapType) AllowNil() bool { return false }

func (t keyValueMapType) decode(dc *DecodeContext, raw any) (any, error) {
	m := raw.(map[string]any)
	out := make(map[string]any, len(m))
	for k, entry := range m {
		v, err := t.value.decode(dc, entry)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", k)
		}
		out[k] = v
	}
	return out, nil
}

// isEmptyRaw reports whether a serialized value carries no information worth
// keeping in a pruning map: an empty object or empty array.
func isEmptyRaw(raw any) bool {
	switch v := raw.(type) {
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

type pairType struct {
	a Type
	b Type
}

// Pair describes a fixed 2-tuple with independently typed slots. The live
// form is [2]any and the raw form a 2-element array.
func Pair(a, b Type) Type { return pairType{a: a, b: b} }

func (t pairType) Serialize(v any) (any, error) {
	p, ok := v.([2]any)
	if !ok {
		return nil, errors.Newf("expected [2]any, got %T", v)
	}
	first, err := t.a.Serialize(p[0])
	if err != nil {
		return nil, errors.Wrap(err, "first slot")
	}
	second, err := t.b.Serialize(p[1])
	if err != nil {
		return nil, errors.Wrap(err, "second slot")
	}
	return []any{first, second}, nil
}

func (t pairType) Verify(raw any) error {
	items, ok := raw.([]any)
	if !ok || len(items) != 2 {
		return errors.Wrapf(ErrBadShape, "expected 2-element array, got %T", raw)
	}
	if err := t.a.Verify(items[0]); err != nil {
		return errors.Wrap(err, "first slot")
	}
	if err := t.b.Verify(items[1]); err != nil {
		return errors.Wrap(err, "second slot")
	}
	return nil
}

func (pairType) AllowNil() bool { return false }

func (t pairType) decode(dc *DecodeContext, raw any) (any, error) {
	items := raw.([]any)
	first, err := t.a.decode(dc, items[0])
	if err != nil {
		return nil, errors.Wrap(err, "first slot")
	}
	second, err := t.b.decode(dc, items[1])
	if err != nil {
		return nil, errors.Wrap(err, "second slot")
	}
	return [2]any{first, second}, nil
}
