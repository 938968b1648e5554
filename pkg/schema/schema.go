// Package schema defines the record schema shared between table connectors
// and the host stream engine, along with the coercion utilities that convert
// external rows to schema-typed records and back.
//
// A schema is an ordered sequence of (name, type) fields. It is the
// structural contract for every record flowing through a connector: readers
// coerce raw rows into it, writers format records out of it, and downstream
// stages validate against it. Schemas are immutable once constructed.
package schema

import (
	"github.com/tabulaflow/tabula/pkg/errors"
)

// FieldType represents the data type of a field
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInt       FieldType = "int"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBool      FieldType = "bool"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeDate      FieldType = "date"
	FieldTypeTime      FieldType = "time"
	FieldTypeJSON      FieldType = "json"
	FieldTypeBinary    FieldType = "binary"
)

var fieldTypes = map[FieldType]bool{
	FieldTypeString:    true,
	FieldTypeInt:       true,
	FieldTypeFloat:     true,
	FieldTypeBool:      true,
	FieldTypeTimestamp: true,
	FieldTypeDate:      true,
	FieldTypeTime:      true,
	FieldTypeJSON:      true,
	FieldTypeBinary:    true,
}

// ParseFieldType validates a declared type name
func ParseFieldType(s string) (FieldType, error) {
	ft := FieldType(s)
	if !fieldTypes[ft] {
		return "", errors.Newf(errors.ErrorTypeValidation, "unknown field type %q", s)
	}
	return ft, nil
}

// Field represents a single field in the schema
type Field struct {
	Name        string
	Type        FieldType
	Nullable    bool
	Description string
}

// Schema is an ordered sequence of fields. Field order is preserved from
// declaration; lookup by name is backed by an index built at construction.
type Schema struct {
	fields []Field
	index  map[string]int
}

// New constructs a schema from the declared fields, validating that at least
// one field is present, every type is known, and names are unique.
func New(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "schema requires at least one field")
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, errors.Newf(errors.ErrorTypeValidation, "field %d has no name", i)
		}
		if !fieldTypes[f.Type] {
			return nil, errors.Newf(errors.ErrorTypeValidation, "field %q has unknown type %q", f.Name, f.Type)
		}
		if _, dup := index[f.Name]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate field name %q", f.Name)
		}
		index[f.Name] = i
	}

	owned := make([]Field, len(fields))
	copy(owned, fields)

	return &Schema{fields: owned, index: index}, nil
}

// Len returns the number of fields
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns the fields in declaration order. The returned slice is a
// copy; mutating it does not affect the schema.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldNames returns the field names in declaration order
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a field by name
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}
