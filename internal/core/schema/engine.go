package schema

import (
	"github.com/cockroachdb/errors"

	"github.com/zeusync/savestate/internal/core/observability/log"
)

// StrictChecks escalates programming errors (an object missing a field its
// schema declares) from logged diagnostics to panics. Enable in development
// and tests; leave off in production so a save proceeds best-effort.
var StrictChecks = false

// SerializeSchema walks a schema against a live object and returns the raw
// field map. Passing a non-nil mergeInto lets a derived class serialize into
// a map its base class already populated, so extended schemas serialize in a
// single pass per layer.
//
// A schema field the object does not own is a schema/class mismatch: panic
// under StrictChecks, otherwise logged and skipped. Descriptor-level failures
// on malformed live values are returned, not panicked, so production saves
// degrade instead of crashing.
func SerializeSchema(obj Object, s *Schema, mergeInto map[string]any) (map[string]any, error) {
	if mergeInto == nil {
		mergeInto = make(map[string]any, s.Len())
	}
	for _, f := range s.Fields() {
		v, ok := obj.Field(f.Name)
		if !ok {
			if StrictChecks {
				panic(errors.AssertionFailedf(
					"object %q owns no field %q declared by its schema", obj.SchemaID(), f.Name))
			}
			log.Provide().Error("schema field missing on object, skipping",
				log.String("class", obj.SchemaID()), log.String("field", f.Name))
			continue
		}
		raw, err := f.Type.Serialize(v)
		if err != nil {
			return nil, errors.Wrapf(err, "class %q field %q", obj.SchemaID(), f.Name)
		}
		mergeInto[f.Name] = raw
	}
	return mergeInto, nil
}

// DeserializeSchema walks a schema against a raw payload, verifying and
// assigning field by field. The first failing field stops the walk; fields
// assigned before it are not rolled back, so on any error the caller must
// treat the object as tainted and discard it.
//
// A non-nil inherited error is returned immediately, letting a derived class
// forward its base class's failure without re-walking anything.
func DeserializeSchema(dc *DecodeContext, obj Object, s *Schema, raw map[string]any, inherited error) error {
	if inherited != nil {
		return inherited
	}
	if raw == nil {
		return errors.Wrapf(ErrMissingPayload, "class %q", obj.SchemaID())
	}
	for _, f := range s.Fields() {
		rv, ok := raw[f.Name]
		if !ok {
			return errors.Wrapf(ErrMissingField, "field %q", f.Name)
		}
		if rv == nil && !f.Type.AllowNil() {
			return errors.Wrapf(ErrNullValue, "field %q", f.Name)
		}
		if err := deserializeValue(dc, f.Type, obj, f.Name, rv); err != nil {
			return errors.Wrapf(err, "field %q", f.Name)
		}
	}
	return nil
}

// VerifySchema repeats the DeserializeSchema walk shape-only: nothing is
// constructed or assigned. Run it over a whole payload before loading to keep
// a corrupt save from partially applying.
func VerifySchema(s *Schema, raw map[string]any) error {
	if raw == nil {
		return ErrMissingPayload
	}
	for _, f := range s.Fields() {
		rv, ok := raw[f.Name]
		if !ok {
			return errors.Wrapf(ErrMissingField, "field %q", f.Name)
		}
		if rv == nil && !f.Type.AllowNil() {
			return errors.Wrapf(ErrNullValue, "field %q", f.Name)
		}
		if err := f.Type.Verify(rv); err != nil {
			return errors.Wrapf(err, "field %q", f.Name)
		}
	}
	return nil
}

// SerializeObject serializes obj through its own schema.
func SerializeObject(obj Object) (map[string]any, error) {
	return SerializeSchema(obj, obj.Schema(), nil)
}

// DeserializeObject verifies and assigns raw into obj through its own schema.
func DeserializeObject(dc *DecodeContext, obj Object, raw map[string]any) error {
	return DeserializeSchema(dc, obj, obj.Schema(), raw, nil)
}

// VerifyObject checks raw against obj's schema without touching obj.
func VerifyObject(obj Object, raw map[string]any) error {
	return VerifySchema(obj.Schema(), raw)
}
