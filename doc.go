// Package tabula binds declared external tables to bounded-data connectors,
// exposing read and write access as record streams for a host dataflow or
// query engine.
//
// A table is declared as a location string, a record schema, and a free-form
// property map. Tabula validates the declaration, resolves the access method
// used to pull bulk data, and builds reader and writer stages against the
// host's stream types. Row-count statistics are fetched lazily and cached so
// a query planner can ask for cardinality estimates without destabilizing
// execution.
//
// # Architecture
//
// The module is organized around a small set of packages:
//
//   - pkg/table: the connector core. Config validation, access-method
//     resolution, reader/writer construction, and memoized statistics.
//   - pkg/table/registry: named provider factories, registered from provider
//     packages at init time.
//   - pkg/table/bigquery: a concrete provider backed by Google BigQuery.
//   - pkg/schema: the record schema and row coercion utilities shared between
//     the core and providers.
//   - pkg/stream: the stream-stage types exchanged with the host engine.
//
// Providers implement the table.Connector interface; the core never talks to
// a storage service directly. Statistics failures degrade to an "unknown"
// sentinel so optimizer hints never break planning.
package tabula
