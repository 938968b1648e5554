package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabulaflow/tabula/pkg/errors"
	"github.com/tabulaflow/tabula/pkg/models"
	"github.com/tabulaflow/tabula/pkg/schema"
)

func streamSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New(schema.Field{Name: "id", Type: schema.FieldTypeInt})
	require.NoError(t, err)
	return s
}

func TestFromRecordsAndCollect(t *testing.T) {
	s := streamSchema(t)
	rs := FromRecords(s,
		&models.Record{Data: map[string]interface{}{"id": int64(1)}},
		&models.Record{Data: map[string]interface{}{"id": int64(2)}},
	)
	assert.Equal(t, s, rs.Schema)

	records, err := Collect(context.Background(), rs)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].Data["id"])
}

func TestCollectStopsAtFirstError(t *testing.T) {
	records := make(chan *models.Record)
	errs := make(chan error, 1)
	errs <- errors.New(errors.ErrorTypeData, "bad row")
	close(records)

	rs := &RecordStream{Records: records, Errors: errs}
	_, err := Collect(context.Background(), rs)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestCollectRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rs := &RecordStream{
		Records: make(chan *models.Record),
		Errors:  make(chan error),
	}

	_, err := Collect(ctx, rs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSinkHandleComplete(t *testing.T) {
	h := NewSinkHandle("acme:sales.orders")
	assert.Equal(t, "acme:sales.orders", h.Location())

	go h.Complete(nil)

	err := h.Wait(context.Background())
	assert.NoError(t, err)
}

func TestSinkHandleCompleteOnce(t *testing.T) {
	h := NewSinkHandle("acme:sales.orders")

	first := errors.New(errors.ErrorTypeData, "insert failed")
	h.Complete(first)
	h.Complete(nil) // later completions are ignored

	err := h.Wait(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestSinkHandleWaitCancellation(t *testing.T) {
	h := NewSinkHandle("acme:sales.orders")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestContextBufferDefaults(t *testing.T) {
	assert.Equal(t, DefaultBufferSize, NewContext("job").Buffer())
	assert.Equal(t, DefaultBufferSize, (&Context{}).Buffer())
	assert.Equal(t, DefaultBufferSize, (*Context)(nil).Buffer())
	assert.Equal(t, 16, (&Context{BufferSize: 16}).Buffer())
}
