package table

import (
	"context"
	"math/big"

	"github.com/tabulaflow/tabula/pkg/models"
	"github.com/tabulaflow/tabula/pkg/schema"
	"github.com/tabulaflow/tabula/pkg/stream"
)

// RowMapper converts a raw external row into a schema-typed record.
type RowMapper func(raw map[string]interface{}) (*models.Record, error)

// RowFormatter converts a record into the external system's raw row format.
type RowFormatter func(r *models.Record) (map[string]interface{}, error)

// Connector is the external I/O collaborator a TableConnector drives. It owns
// the location string format and all contact with the storage service; the
// core only passes locations through.
type Connector interface {
	// Read produces a bounded record stream from the location using the given
	// access method, converting each raw row through mapRow. The returned
	// stream's I/O is driven by whoever consumes its channels.
	Read(ctx context.Context, sc *stream.Context, location string, method AccessMethod, mapRow RowMapper) (*stream.RecordStream, error)

	// Write attaches a sink at the location, mapping the declared schema to
	// the service's native table format and each incoming record through
	// formatRow. Exactly one sink per call.
	Write(ctx context.Context, location string, tableSchema *schema.Schema, formatRow RowFormatter, input *stream.RecordStream) (*stream.SinkHandle, error)

	// ApproximateRowCount fetches a row-count estimate from the service's
	// metadata. A nil count with nil error means the service has no stored
	// count for this resource.
	ApproximateRowCount(ctx context.Context, location string, opts StatisticsOptions) (*big.Int, error)
}

// Table is the capability interface the host engine requires from a bound
// external table.
type Table interface {
	// IsBounded reports whether the table is a finite, batch-oriented resource
	IsBounded() bool
	// BuildReader attaches a source stage producing the table's records
	BuildReader(ctx context.Context, sc *stream.Context) (*stream.RecordStream, error)
	// BuildWriter attaches a sink stage consuming the input stream
	BuildWriter(ctx context.Context, input *stream.RecordStream) (*stream.SinkHandle, error)
	// Statistics returns the cached cardinality estimate, fetching it on first use
	Statistics(ctx context.Context, opts StatisticsOptions) Statistics
}
