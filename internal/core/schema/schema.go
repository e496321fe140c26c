package schema

import (
	"github.com/zeusync/savestate/internal/core/observability/log"
)

// FieldDef binds one field name to the descriptor governing it.
type FieldDef struct {
	Name string
	Type Type
}

// Schema is the ordered field layout of one persistable class. The wire
// format is a mapping, so order carries no meaning on disk, but walks iterate
// in declaration order so error reporting is deterministic.
//
// A Schema is built once (usually inside a Cache factory) and never mutated
// afterwards; shared instances are read concurrently by the engine.
type Schema struct {
	fields    []FieldDef
	index     map[string]int
	conflicts []string
}

// New creates an empty Schema.
func New() *Schema {
	return &Schema{index: make(map[string]int)}
}

// Add appends a field. Declaring the same name twice is a configuration
// error: the first declaration wins and the conflict is recorded.
func (s *Schema) Add(name string, t Type) *Schema {
	if _, ok := s.index[name]; ok {
		s.conflicts = append(s.conflicts, name)
		log.Provide().Error("schema field declared twice, keeping first",
			log.String("field", name))
		return s
	}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, FieldDef{Name: name, Type: t})
	return s
}

// Fields returns the field definitions in declaration order. The returned
// slice is shared; callers must not modify it.
func (s *Schema) Fields() []FieldDef { return s.fields }

// Lookup returns the descriptor for name.
func (s *Schema) Lookup(name string) (Type, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i].Type, true
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Conflicts returns the field names that collided during Add or Extend, in
// the order the collisions happened.
func (s *Schema) Conflicts() []string { return s.conflicts }

// Extend merges a base schema with the fields a derived class adds on top of
// it. The result is a fresh Schema; neither input is modified. A name present
// in both is a configuration error: the base definition wins and the conflict
// is recorded on the result.
func Extend(base, extra *Schema) *Schema {
	merged := New()
	for _, f := range base.fields {
		merged.Add(f.Name, f.Type)
	}
	for _, f := range extra.fields {
		merged.Add(f.Name, f.Type)
	}
	return merged
}
