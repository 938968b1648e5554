package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundedUnknown(t *testing.T) {
	assert.False(t, BoundedUnknown.Known())
	assert.Equal(t, 0.0, BoundedUnknown.RowCount())
	assert.Equal(t, "unknown", BoundedUnknown.String())
}

func TestBoundedCount(t *testing.T) {
	s := BoundedCount(1500)
	assert.True(t, s.Known())
	assert.Equal(t, 1500.0, s.RowCount())
	assert.Equal(t, "~1500 rows", s.String())
}

func TestBoundedCountZero(t *testing.T) {
	s := BoundedCount(0)
	assert.True(t, s.Known())
	assert.Equal(t, 0.0, s.RowCount())
}
