// Package stream defines the stream-stage types exchanged between table
// connectors and the host engine. A connector builds stream descriptors; the
// host schedules the actual I/O by consuming the channels they carry.
package stream

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tabulaflow/tabula/pkg/logger"
	"github.com/tabulaflow/tabula/pkg/models"
	"github.com/tabulaflow/tabula/pkg/schema"
)

// DefaultBufferSize is the channel buffer used when a Context does not set one.
const DefaultBufferSize = 1024

// RecordStream represents a bounded flow of schema-typed records between
// pipeline stages. Producers close Records when the stream is exhausted;
// failures during production are delivered on Errors.
type RecordStream struct {
	// Schema tags the stream so downstream stages can validate record shape
	Schema  *schema.Schema
	Records <-chan *models.Record
	Errors  <-chan error
}

// Context is the entry point the host engine hands to a reader stage. It
// carries per-job identity and tuning, not cancellation; cancellation flows
// through context.Context on the build call.
type Context struct {
	JobID      string
	BufferSize int
	Logger     *zap.Logger
}

// NewContext creates a stream context with default buffering
func NewContext(jobID string) *Context {
	return &Context{
		JobID:      jobID,
		BufferSize: DefaultBufferSize,
		Logger:     logger.Get().With(zap.String("job_id", jobID)),
	}
}

// Buffer returns the configured channel buffer size, falling back to the default.
func (c *Context) Buffer() int {
	if c == nil || c.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return c.BufferSize
}

// SinkHandle describes a writer stage attached to an external location. The
// producing connector completes it once the sink has drained its input; the
// host waits on it to observe terminal success or failure.
type SinkHandle struct {
	location string

	once sync.Once
	done chan struct{}
	err  error
}

// NewSinkHandle creates an incomplete sink handle for the given location
func NewSinkHandle(location string) *SinkHandle {
	return &SinkHandle{
		location: location,
		done:     make(chan struct{}),
	}
}

// Location returns the external resource identifier the sink writes to
func (h *SinkHandle) Location() string {
	return h.location
}

// Complete marks the sink as finished. Only the first call takes effect.
func (h *SinkHandle) Complete(err error) {
	h.once.Do(func() {
		h.err = err
		close(h.done)
	})
}

// Done returns a channel closed when the sink has finished
func (h *SinkHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the sink finishes or the context is cancelled, returning
// the sink's terminal error.
func (h *SinkHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FromRecords builds an already-populated stream, useful for tests and for
// feeding a writer from in-memory data.
func FromRecords(s *schema.Schema, records ...*models.Record) *RecordStream {
	recs := make(chan *models.Record, len(records))
	errs := make(chan error, 1)
	for _, r := range records {
		recs <- r
	}
	close(recs)
	close(errs)

	return &RecordStream{Schema: s, Records: recs, Errors: errs}
}

// Collect drains a stream into a slice, stopping at the first error or on
// context cancellation.
func Collect(ctx context.Context, rs *RecordStream) ([]*models.Record, error) {
	var out []*models.Record
	records := rs.Records
	errs := rs.Errors

	for records != nil || errs != nil {
		select {
		case r, ok := <-records:
			if !ok {
				records = nil
				continue
			}
			out = append(out, r)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return out, err
			}
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}

	return out, nil
}
