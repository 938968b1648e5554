package bigquery

import (
	"context"

	"github.com/tabulaflow/tabula/pkg/table"
	"github.com/tabulaflow/tabula/pkg/table/registry"
)

func init() {
	// Register the BigQuery table provider in the global registry
	_ = registry.Register("bigquery", NewTable)

	// Also register as "bq" for convenience
	_ = registry.Register("bq", NewTable)
}

// NewTable is the registry factory: it derives the project from the declared
// location, builds a connector, and binds the table configuration to it.
func NewTable(cfg table.Config) (table.Table, error) {
	spec, err := ParseTableSpec(cfg.Location)
	if err != nil {
		return nil, err
	}

	conn, err := NewConnector(context.Background(), spec.Project)
	if err != nil {
		return nil, err
	}

	return table.New(cfg, conn)
}
