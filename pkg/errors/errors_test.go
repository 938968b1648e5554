package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndError(t *testing.T) {
	err := New(ErrorTypeConfig, "missing location")
	assert.Equal(t, "config: missing location", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeValidation, "invalid method %q", "bogus")
	assert.Contains(t, err.Error(), `"bogus"`)
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Wrap(cause, ErrorTypeConnection, "bigquery client")

	assert.Equal(t, "connection: bigquery client: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, ErrorTypeConnection, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeData, "bad row")
	outer := Wrap(inner, ErrorTypeStatistics, "row count")

	require.NotEmpty(t, outer.Stack)
	assert.Equal(t, inner.Stack, outer.Stack)
}

func TestIsTypeAndGetType(t *testing.T) {
	err := New(ErrorTypeStatistics, "fetch failed")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, IsType(wrapped, ErrorTypeStatistics))
	assert.False(t, IsType(wrapped, ErrorTypeConfig))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeConfig))

	assert.Equal(t, ErrorTypeStatistics, GetType(wrapped))
	assert.Equal(t, ErrorTypeInternal, GetType(fmt.Errorf("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrorTypeTimeout, "deadline")))
	assert.True(t, IsRetryable(New(ErrorTypeConnection, "refused")))
	assert.True(t, IsRetryable(New(ErrorTypeStatistics, "fetch failed")))
	assert.False(t, IsRetryable(New(ErrorTypeConfig, "bad config")))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeData, "coercion failed").
		WithDetail("field", "id").
		WithDetail("value", "1.5")

	assert.Equal(t, "id", err.Details["field"])
	assert.Equal(t, "1.5", err.Details["value"])
}
