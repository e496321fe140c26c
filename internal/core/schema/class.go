package schema

import (
	"github.com/cockroachdb/errors"

	"github.com/zeusync/savestate/internal/core/schema/registry"
)

// Wire keys for tagged nested objects.
const (
	classTagKey  = "$class"
	classDataKey = "data"
)

// MetaAware is implemented by objects that want to receive the registry entry
// their metaclass tag resolved to during deserialization.
type MetaAware interface {
	SetMetaType(e *registry.Entry)
}

type classIDType struct {
	reg *registry.Registry
}

// ClassID describes a field holding a bare class identifier string that must
// be registered in reg. The live form is the validated string itself.
func ClassID(reg *registry.Registry) Type { return classIDType{reg: reg} }

func (t classIDType) Serialize(v any) (any, error) {
	id, err := classIDOf(v)
	if err != nil {
		return nil, err
	}
	if !t.reg.Has(id) {
		return nil, errors.Wrapf(ErrUnknownClass, "id %q", id)
	}
	return id, nil
}

func (t classIDType) Verify(raw any) error {
	id, ok := raw.(string)
	if !ok {
		return errors.Wrapf(ErrBadShape, "expected class id string, got %T", raw)
	}
	if !t.reg.Has(id) {
		return errors.Wrapf(ErrUnknownClass, "id %q", id)
	}
	return nil
}

func (classIDType) AllowNil() bool { return false }

func (classIDType) decode(_ *DecodeContext, raw any) (any, error) {
	return raw.(string), nil
}

// classIDOf extracts a class identifier from the live forms a caller may
// reasonably store: the id string, a registry entry, or a persistable object.
func classIDOf(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case *registry.Entry:
		return x.ID(), nil
	case Object:
		return x.SchemaID(), nil
	default:
		return "", errors.Newf("expected class id, got %T", v)
	}
}

type classType struct {
	reg *registry.Registry
}

// Class describes a nested persistable object whose concrete type is chosen
// at load time through the tag carried in the data. Deserializing constructs
// a fresh instance via the registry.
func Class(reg *registry.Registry) Type { return classType{reg: reg} }

func (classType) Serialize(v any) (any, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, errors.Newf("expected persistable object, got %T", v)
	}
	return serializeTagged(obj)
}

// serializeTagged wraps an object's serialized fields in the tagged wire
// envelope that records its concrete type.
func serializeTagged(obj Object) (any, error) {
	data, err := SerializeObject(obj)
	if err != nil {
		return nil, err
	}
	return map[string]any{classTagKey: obj.SchemaID(), classDataKey: data}, nil
}

func (t classType) Verify(raw any) error {
	data, entry, err := t.unpack(raw)
	if err != nil {
		return err
	}
	probe, err := instanceOf(entry)
	if err != nil {
		return err
	}
	return VerifyObject(probe, data)
}

func (classType) AllowNil() bool { return false }

func (t classType) decode(dc *DecodeContext, raw any) (any, error) {
	data, entry, err := t.unpack(raw)
	if err != nil {
		return nil, err
	}
	obj, err := instanceOf(entry)
	if err != nil {
		return nil, err
	}
	if err = DeserializeObject(dc, obj, data); err != nil {
		return nil, errors.Wrapf(err, "class %q", entry.ID())
	}
	return obj, nil
}

// unpack splits a tagged wire object into its payload and registry entry.
func (t classType) unpack(raw any) (map[string]any, *registry.Entry, error) {
	id, data, err := unpackTagged(raw)
	if err != nil {
		return nil, nil, err
	}
	entry, ok := t.reg.Resolve(id)
	if !ok {
		return nil, nil, errors.Wrapf(ErrUnknownClass, "id %q", id)
	}
	return data, entry, nil
}

func unpackTagged(raw any) (string, map[string]any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return "", nil, errors.Wrapf(ErrBadShape, "expected tagged object, got %T", raw)
	}
	id, ok := m[classTagKey].(string)
	if !ok {
		return "", nil, errors.Wrapf(ErrBadShape, "missing or non-string %q tag", classTagKey)
	}
	data, ok := m[classDataKey].(map[string]any)
	if !ok {
		return "", nil, errors.Wrapf(ErrBadShape, "missing or malformed %q payload", classDataKey)
	}
	return id, data, nil
}

// instanceOf constructs a fresh object through a registry entry, guarding
// against factories registered for non-persistable types.
func instanceOf(entry *registry.Entry) (Object, error) {
	obj, ok := entry.New().(Object)
	if !ok {
		return nil, errors.Newf("registered type %q is not a persistable object", entry.ID())
	}
	return obj, nil
}

type classDataType struct {
	reg *registry.Registry
}

// ClassData is Class without materialization: the payload is validated
// against the resolved type's schema, but deserializing keeps the tagged raw
// map instead of constructing an instance. Useful for data the caller defers
// rebuilding, such as deleted-but-restorable objects.
func ClassData(reg *registry.Registry) Type { return classDataType{reg: reg} }

func (classDataType) Serialize(v any) (any, error) {
	switch x := v.(type) {
	case Object:
		return serializeTagged(x)
	case map[string]any:
		// Already in wire form; keep it as is after a shape check.
		if _, _, err := unpackTagged(x); err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, errors.Newf("expected persistable object or tagged map, got %T", v)
	}
}

func (t classDataType) Verify(raw any) error {
	return classType{reg: t.reg}.Verify(raw)
}

func (classDataType) AllowNil() bool { return false }

func (classDataType) decode(_ *DecodeContext, raw any) (any, error) {
	return raw.(map[string]any), nil
}

type fixedClassType struct {
	build registry.Factory
}

// FixedClass describes a nested object whose concrete type is statically
// known, so the wire form is the bare field map with no tag.
func FixedClass(build registry.Factory) Type { return fixedClassType{build: build} }

func (fixedClassType) Serialize(v any) (any, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, errors.Newf("expected persistable object, got %T", v)
	}
	return SerializeObject(obj)
}

func (t fixedClassType) Verify(raw any) error {
	data, ok := raw.(map[string]any)
	if !ok {
		return errors.Wrapf(ErrBadShape, "expected object, got %T", raw)
	}
	probe, ok := t.build().(Object)
	if !ok {
		return errors.New("fixed class factory does not produce a persistable object")
	}
	return VerifyObject(probe, data)
}

func (fixedClassType) AllowNil() bool { return false }

func (t fixedClassType) decode(dc *DecodeContext, raw any) (any, error) {
	obj, ok := t.build().(Object)
	if !ok {
		return nil, errors.New("fixed class factory does not produce a persistable object")
	}
	if err := DeserializeObject(dc, obj, raw.(map[string]any)); err != nil {
		return nil, err
	}
	return obj, nil
}

type metaClassType struct {
	reg *registry.Registry
}

// MetaClass describes a reference to a type itself rather than an instance,
// persisting "which kind" as the registered id. The live form is the
// *registry.Entry handle.
func MetaClass(reg *registry.Registry) Type { return metaClassType{reg: reg} }

func (t metaClassType) Serialize(v any) (any, error) {
	id, err := classIDOf(v)
	if err != nil {
		return nil, err
	}
	if !t.reg.Has(id) {
		return nil, errors.Wrapf(ErrUnknownClass, "id %q", id)
	}
	return id, nil
}

func (t metaClassType) Verify(raw any) error {
	return classIDType{reg: t.reg}.Verify(raw)
}

func (metaClassType) AllowNil() bool { return false }

func (t metaClassType) decode(_ *DecodeContext, raw any) (any, error) {
	entry, ok := t.reg.Resolve(raw.(string))
	if !ok {
		return nil, errors.Wrapf(ErrUnknownClass, "id %q", raw)
	}
	return entry, nil
}

type classFromMetaclassType struct {
	build registry.Factory
	reg   *registry.Registry
}

// ClassFromMetaclass combines a statically known base type with a registry
// used only to validate and resolve the metaclass tag carried in the data.
// The instance is always constructed through build; the resolved entry is
// handed to it via MetaAware when implemented.
func ClassFromMetaclass(build registry.Factory, reg *registry.Registry) Type {
	return classFromMetaclassType{build: build, reg: reg}
}

func (classFromMetaclassType) Serialize(v any) (any, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, errors.Newf("expected persistable object, got %T", v)
	}
	return serializeTagged(obj)
}

func (t classFromMetaclassType) Verify(raw any) error {
	id, data, err := unpackTagged(raw)
	if err != nil {
		return err
	}
	if !t.reg.Has(id) {
		return errors.Wrapf(ErrUnknownClass, "metaclass tag %q", id)
	}
	probe, ok := t.build().(Object)
	if !ok {
		return errors.New("base class factory does not produce a persistable object")
	}
	return VerifyObject(probe, data)
}

func (classFromMetaclassType) AllowNil() bool { return false }

func (t classFromMetaclassType) decode(dc *DecodeContext, raw any) (any, error) {
	id, data, err := unpackTagged(raw)
	if err != nil {
		return nil, err
	}
	entry, ok := t.reg.Resolve(id)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownClass, "metaclass tag %q", id)
	}
	obj, ok := t.build().(Object)
	if !ok {
		return nil, errors.New("base class factory does not produce a persistable object")
	}
	if aware, isAware := obj.(MetaAware); isAware {
		aware.SetMetaType(entry)
	}
	if err = DeserializeObject(dc, obj, data); err != nil {
		return nil, errors.Wrapf(err, "metaclass %q", id)
	}
	return obj, nil
}
