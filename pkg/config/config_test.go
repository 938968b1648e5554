package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabulaflow/tabula/pkg/schema"
)

const sampleDefinition = `
name: orders
provider: bigquery
location: "acme:sales.orders"
schema:
  - name: id
    type: int
  - name: customer
    type: string
    nullable: true
  - name: created_at
    type: timestamp
properties:
  method: DIRECT_READ
truncate_timestamps: true
`

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTable(t *testing.T) {
	def, err := LoadTable(writeDefinition(t, sampleDefinition))
	require.NoError(t, err)

	assert.Equal(t, "orders", def.Name)
	assert.Equal(t, "bigquery", def.Provider)
	assert.Equal(t, "acme:sales.orders", def.Location)
	assert.Equal(t, "DIRECT_READ", def.Properties["method"])
	assert.True(t, def.TruncateTimestamps)
	require.Len(t, def.Schema, 3)
}

func TestLoadTableEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_PROJECT", "acme")

	def, err := LoadTable(writeDefinition(t, `
name: orders
provider: bigquery
location: "${TEST_PROJECT}:sales.orders"
schema:
  - name: id
    type: int
`))
	require.NoError(t, err)
	assert.Equal(t, "acme:sales.orders", def.Location)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := TableDefinition{
		Name:     "orders",
		Provider: "bigquery",
		Location: "a:b.c",
		Schema:   []FieldDefinition{{Name: "id", Type: "int"}},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*TableDefinition)
	}{
		{"missing name", func(d *TableDefinition) { d.Name = "" }},
		{"missing provider", func(d *TableDefinition) { d.Provider = "" }},
		{"missing location", func(d *TableDefinition) { d.Location = "" }},
		{"empty schema", func(d *TableDefinition) { d.Schema = nil }},
		{"bad field type", func(d *TableDefinition) { d.Schema = []FieldDefinition{{Name: "id", Type: "uuid"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			assert.Error(t, d.Validate())
		})
	}
}

func TestTableConfigConversion(t *testing.T) {
	def, err := LoadTable(writeDefinition(t, sampleDefinition))
	require.NoError(t, err)

	cfg, err := def.TableConfig()
	require.NoError(t, err)

	assert.Equal(t, "orders", cfg.Name)
	assert.Equal(t, "acme:sales.orders", cfg.Location)
	assert.Equal(t, []string{"id", "customer", "created_at"}, cfg.Schema.FieldNames())
	assert.True(t, cfg.Coercion.TruncateTimestamps)

	f, ok := cfg.Schema.Field("customer")
	require.True(t, ok)
	assert.Equal(t, schema.FieldTypeString, f.Type)
	assert.True(t, f.Nullable)
}

func TestSaveRoundTrip(t *testing.T) {
	def := &TableDefinition{
		Name:     "events",
		Provider: "bigquery",
		Location: "acme:logs.events",
		Schema:   []FieldDefinition{{Name: "id", Type: "int"}},
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, def))

	loaded, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, def, loaded)
}
