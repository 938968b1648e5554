// Package metrics provides Prometheus instrumentation for table connectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tabula",
			Subsystem: "table",
			Name:      "records_read_total",
			Help:      "Total records produced by reader stages",
		},
		[]string{"table"},
	)

	recordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tabula",
			Subsystem: "table",
			Name:      "records_written_total",
			Help:      "Total records consumed by writer stages",
		},
		[]string{"table"},
	)

	statisticsFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tabula",
			Subsystem: "table",
			Name:      "statistics_fetches_total",
			Help:      "Row-count statistics fetch attempts by outcome",
		},
		[]string{"table", "outcome"},
	)

	buildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tabula",
			Subsystem: "table",
			Name:      "build_duration_seconds",
			Help:      "Duration of reader/writer stage construction",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"table", "operation"},
	)
)

// Statistics fetch outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeUnknown = "unknown"
	OutcomeError   = "error"
)

// Collector records metrics for a single table connector instance. Metrics
// are shared process-wide; the collector curries the table label.
type Collector struct {
	table string
}

// NewCollector creates a collector labeled with the table name
func NewCollector(table string) *Collector {
	return &Collector{table: table}
}

// RecordsRead adds to the read counter
func (c *Collector) RecordsRead(n int) {
	recordsRead.WithLabelValues(c.table).Add(float64(n))
}

// RecordsWritten adds to the write counter
func (c *Collector) RecordsWritten(n int) {
	recordsWritten.WithLabelValues(c.table).Add(float64(n))
}

// StatisticsFetch counts a statistics fetch attempt with its outcome
func (c *Collector) StatisticsFetch(outcome string) {
	statisticsFetches.WithLabelValues(c.table, outcome).Inc()
}

// ObserveBuild records how long a stage construction took
func (c *Collector) ObserveBuild(operation string, d time.Duration) {
	buildDuration.WithLabelValues(c.table, operation).Observe(d.Seconds())
}
