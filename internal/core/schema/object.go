package schema

import "github.com/cockroachdb/errors"

// Object is the contract every persistable type implements: a stable class
// identifier, a schema describing its shape, and named field storage the
// engine can read during serialize and write during deserialize.
//
// In return the type gets serialize, verify-gated deserialize, and dry-run
// verify for free through SerializeObject, DeserializeObject and VerifyObject.
// The engine never constructs or destroys objects on its own; ownership stays
// with the caller.
type Object interface {
	// SchemaID returns the stable class identifier. It must be unique across
	// every persistable type in the process.
	SchemaID() string

	// Schema returns the field layout, usually through a shared Cache.
	Schema() *Schema

	// Field returns the current live value of the named field, and whether
	// the object owns such a field at all.
	Field(name string) (any, bool)

	// SetField assigns a deserialized value into the named field.
	SetField(name string, value any) error
}

// Bag is a map-backed field store for persistable types that do not want
// per-field struct plumbing. Embed a *Bag and forward Field/SetField, or use
// it directly in tests. A Bag is not safe for concurrent mutation.
type Bag struct {
	values map[string]any
}

// NewBag creates an empty Bag.
func NewBag() *Bag {
	return &Bag{values: make(map[string]any)}
}

// BagOf creates a Bag pre-populated with the given values.
func BagOf(values map[string]any) *Bag {
	b := NewBag()
	for k, v := range values {
		b.values[k] = v
	}
	return b
}

// Field returns the stored value for name.
func (b *Bag) Field(name string) (any, bool) {
	v, ok := b.values[name]
	return v, ok
}

// SetField stores value under name, creating the slot if needed.
func (b *Bag) SetField(name string, value any) error {
	if name == "" {
		return errors.New("empty field name")
	}
	b.values[name] = value
	return nil
}

// Len returns the number of stored fields.
func (b *Bag) Len() int { return len(b.values) }
