// Package table implements the connector core: it binds a declared external
// table to a bounded-data connector, resolving the access method at
// construction, building reader and writer stages against the host stream
// engine, and memoizing best-effort row-count statistics for the planner.
package table

import (
	"context"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tabulaflow/tabula/pkg/errors"
	"github.com/tabulaflow/tabula/pkg/logger"
	"github.com/tabulaflow/tabula/pkg/metrics"
	"github.com/tabulaflow/tabula/pkg/models"
	"github.com/tabulaflow/tabula/pkg/schema"
	"github.com/tabulaflow/tabula/pkg/stream"
)

// MethodProperty is the configuration key selecting the access method.
const MethodProperty = "method"

// Config declares an external table. It is immutable once handed to New.
type Config struct {
	// Name identifies the table instance in logs and metrics; falls back to
	// Location when empty.
	Name string
	// Location is the opaque external-resource identifier. Its internal
	// format is owned by the Connector, not the core.
	Location string
	// Schema is the structural contract for every record through the connector
	Schema *schema.Schema
	// Properties is free-form string configuration; MethodProperty is the
	// only key the core recognizes.
	Properties map[string]string
	// Coercion controls raw-row-to-record conversion on the read path
	Coercion schema.CoerceOptions
}

// TableConnector binds a declared table to a Connector. It implements the
// Table capability interface required by the host engine.
//
// The connector holds no internal locks beyond the statistics cell; the host
// engine is expected to call BuildReader/BuildWriter once per logical plan
// stage. Statistics may be called concurrently from a planning thread.
type TableConnector struct {
	config Config
	method AccessMethod
	conn   Connector

	logger  *zap.Logger
	metrics *metrics.Collector

	// statsOnce guards the single transition NotFetched -> Cached. The
	// stored value, including the unknown outcome, is never recomputed.
	statsOnce sync.Once
	stats     Statistics
}

// New validates the declaration and resolves the access method once. An
// unrecognized method property fails immediately; statistics and I/O are
// deferred until the host asks for them.
func New(cfg Config, conn Connector) (*TableConnector, error) {
	if conn == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "connector is required")
	}
	if cfg.Location == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "table location is required")
	}
	if cfg.Schema == nil || cfg.Schema.Len() == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "table schema is required")
	}

	method := MethodDefault
	if raw, ok := cfg.Properties[MethodProperty]; ok {
		resolved, err := ResolveAccessMethod(raw)
		if err != nil {
			return nil, err
		}
		method = resolved
	}

	name := cfg.Name
	if name == "" {
		name = cfg.Location
	}

	t := &TableConnector{
		config:  cfg,
		method:  method,
		conn:    conn,
		logger:  logger.Get().With(zap.String("table", name)),
		metrics: metrics.NewCollector(name),
	}

	t.logger.Info("access method resolved",
		zap.String("location", cfg.Location),
		zap.String("method", string(method)))

	return t, nil
}

// Method returns the access method resolved at construction
func (t *TableConnector) Method() AccessMethod {
	return t.method
}

// Location returns the declared external-resource identifier
func (t *TableConnector) Location() string {
	return t.config.Location
}

// Schema returns the declared record schema
func (t *TableConnector) Schema() *schema.Schema {
	return t.config.Schema
}

// IsBounded always reports true: this connector family binds finite,
// batch-oriented external resources.
func (t *TableConnector) IsBounded() bool {
	return true
}

// BuildReader asks the connector for a bounded record stream from the
// declared location, coercing each raw row into a record and tagging the
// stream with the table schema. Construction does not block on I/O.
func (t *TableConnector) BuildReader(ctx context.Context, sc *stream.Context) (*stream.RecordStream, error) {
	start := time.Now()

	rs, err := t.conn.Read(ctx, sc, t.config.Location, t.method, t.mapRow)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to build reader")
	}
	rs.Schema = t.config.Schema

	t.metrics.ObserveBuild("reader", time.Since(start))
	t.logger.Debug("reader stage built", zap.String("method", string(t.method)))

	return rs, nil
}

// BuildWriter asks the connector to attach a sink at the declared location,
// mapping the schema to the service's native table format and each incoming
// record to its raw row form. One sink per call; partitioning, if any,
// belongs to the host.
func (t *TableConnector) BuildWriter(ctx context.Context, input *stream.RecordStream) (*stream.SinkHandle, error) {
	if input == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "input stream is required")
	}

	start := time.Now()

	handle, err := t.conn.Write(ctx, t.config.Location, t.config.Schema, t.formatRow, input)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to build writer")
	}

	t.metrics.ObserveBuild("writer", time.Since(start))
	t.logger.Debug("writer stage built")

	return handle, nil
}

// Statistics returns the cardinality estimate for the table, fetching it from
// the connector on first call and caching the outcome, unknown included, for
// the lifetime of the instance. Fetch failures degrade to BoundedUnknown and
// are never surfaced: statistics are an optimization hint, not
// correctness-critical.
func (t *TableConnector) Statistics(ctx context.Context, opts StatisticsOptions) Statistics {
	t.statsOnce.Do(func() {
		t.stats = t.fetchStatistics(ctx, opts)
	})
	return t.stats
}

func (t *TableConnector) fetchStatistics(ctx context.Context, opts StatisticsOptions) Statistics {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	count, err := t.conn.ApproximateRowCount(ctx, t.config.Location, opts)
	if err != nil {
		t.logger.Warn("could not get the row count for the table",
			zap.String("location", t.config.Location),
			zap.Error(err))
		t.metrics.StatisticsFetch(metrics.OutcomeError)
		return BoundedUnknown
	}

	if count == nil {
		t.metrics.StatisticsFetch(metrics.OutcomeUnknown)
		return BoundedUnknown
	}

	rows, _ := new(big.Float).SetInt(count).Float64()
	t.metrics.StatisticsFetch(metrics.OutcomeOK)
	return BoundedCount(rows)
}

func (t *TableConnector) mapRow(raw map[string]interface{}) (*models.Record, error) {
	rec, err := schema.RowToRecord(raw, t.config.Schema, t.config.Coercion)
	if err != nil {
		return nil, err
	}
	t.metrics.RecordsRead(1)
	return rec, nil
}

func (t *TableConnector) formatRow(r *models.Record) (map[string]interface{}, error) {
	if r == nil {
		return nil, errors.New(errors.ErrorTypeData, "nil record")
	}
	t.metrics.RecordsWritten(1)
	return schema.RecordToRow(r), nil
}
