package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAccessMethodCaseInsensitive(t *testing.T) {
	tests := []struct {
		raw  string
		want AccessMethod
	}{
		{"default", MethodDefault},
		{"Default", MethodDefault},
		{"DEFAULT", MethodDefault},
		{"direct_read", MethodDirectRead},
		{"Direct_Read", MethodDirectRead},
		{"DIRECT_READ", MethodDirectRead},
		{"export", MethodExport},
		{"Export", MethodExport},
		{"EXPORT", MethodExport},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ResolveAccessMethod(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAccessMethodInvalid(t *testing.T) {
	_, err := ResolveAccessMethod("bogus")
	require.Error(t, err)

	// The diagnostic names the offending value and every valid method
	assert.Contains(t, err.Error(), "bogus")
	for _, name := range ValidAccessMethods() {
		assert.Contains(t, err.Error(), name)
	}
}

func TestResolveAccessMethodEmptyString(t *testing.T) {
	_, err := ResolveAccessMethod("")
	assert.Error(t, err)
}

func TestValidAccessMethods(t *testing.T) {
	assert.Equal(t, []string{"DEFAULT", "DIRECT_READ", "EXPORT"}, ValidAccessMethods())
}
