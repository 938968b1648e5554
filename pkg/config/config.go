// Package config defines the declarative table definition format and its
// YAML loader. A definition names a provider, a location, a schema, and
// free-form properties; it converts into the table.Config handed to a
// provider factory.
package config

import (
	"github.com/tabulaflow/tabula/pkg/errors"
	"github.com/tabulaflow/tabula/pkg/schema"
	"github.com/tabulaflow/tabula/pkg/table"
)

// TableDefinition is the on-disk declaration of an external table.
type TableDefinition struct {
	// Name identifies the table instance
	Name string `yaml:"name" json:"name"`
	// Provider is the registry key of the table provider (e.g. "bigquery")
	Provider string `yaml:"provider" json:"provider"`
	// Location is the provider-owned external resource identifier
	Location string `yaml:"location" json:"location"`
	// Schema declares the record fields in order
	Schema []FieldDefinition `yaml:"schema" json:"schema"`
	// Properties is free-form provider and core configuration
	Properties map[string]string `yaml:"properties,omitempty" json:"properties,omitempty"`
	// TruncateTimestamps truncates timestamps to millisecond precision on read
	TruncateTimestamps bool `yaml:"truncate_timestamps,omitempty" json:"truncate_timestamps,omitempty"`
}

// FieldDefinition declares a single schema field.
type FieldDefinition struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Nullable    bool   `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks the definition for structural problems before conversion.
func (d *TableDefinition) Validate() error {
	if d.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "table name is required")
	}
	if d.Provider == "" {
		return errors.New(errors.ErrorTypeConfig, "table provider is required")
	}
	if d.Location == "" {
		return errors.New(errors.ErrorTypeConfig, "table location is required")
	}
	if len(d.Schema) == 0 {
		return errors.New(errors.ErrorTypeConfig, "table schema is required")
	}
	for _, f := range d.Schema {
		if _, err := schema.ParseFieldType(f.Type); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "invalid schema")
		}
	}
	return nil
}

// TableConfig converts the definition into the configuration handed to a
// provider factory.
func (d *TableDefinition) TableConfig() (table.Config, error) {
	if err := d.Validate(); err != nil {
		return table.Config{}, err
	}

	fields := make([]schema.Field, 0, len(d.Schema))
	for _, f := range d.Schema {
		ft, err := schema.ParseFieldType(f.Type)
		if err != nil {
			return table.Config{}, errors.Wrap(err, errors.ErrorTypeConfig, "invalid schema")
		}
		fields = append(fields, schema.Field{
			Name:        f.Name,
			Type:        ft,
			Nullable:    f.Nullable,
			Description: f.Description,
		})
	}

	s, err := schema.New(fields...)
	if err != nil {
		return table.Config{}, errors.Wrap(err, errors.ErrorTypeConfig, "invalid schema")
	}

	return table.Config{
		Name:       d.Name,
		Location:   d.Location,
		Schema:     s,
		Properties: d.Properties,
		Coercion:   schema.CoerceOptions{TruncateTimestamps: d.TruncateTimestamps},
	}, nil
}
