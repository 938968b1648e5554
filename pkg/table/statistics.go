package table

import (
	"fmt"
	"time"
)

// Statistics is the planner-facing cardinality estimate for a bounded table.
// It is a tagged value: either unknown, or an approximate row count. The
// count is a load-time approximation, not a live value.
type Statistics struct {
	known    bool
	rowCount float64
}

// BoundedUnknown is the sentinel returned when no row count is available.
var BoundedUnknown = Statistics{}

// BoundedCount creates statistics carrying an approximate row count.
func BoundedCount(rows float64) Statistics {
	return Statistics{known: true, rowCount: rows}
}

// Known reports whether a row count is available
func (s Statistics) Known() bool {
	return s.known
}

// RowCount returns the approximate row count; zero when unknown.
func (s Statistics) RowCount() float64 {
	return s.rowCount
}

func (s Statistics) String() string {
	if !s.known {
		return "unknown"
	}
	return fmt.Sprintf("~%.0f rows", s.rowCount)
}

// StatisticsOptions tunes a statistics fetch.
type StatisticsOptions struct {
	// Timeout bounds the metadata fetch. Zero leaves cancellation entirely
	// to the caller's context.
	Timeout time.Duration
}
