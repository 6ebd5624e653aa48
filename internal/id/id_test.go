package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "1", Format(1))
	assert.Equal(t, "42", Format(42))
}

func TestParse_Valid(t *testing.T) {
	n, err := Parse("17")
	require.NoError(t, err)
	assert.Equal(t, 17, n)
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{"", "abc", "0", "-3", "007", "+5", "1.5", " 1"}
	for _, tt := range tests {
		_, err := Parse(tt)
		assert.Error(t, err, "expected error for %q", tt)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{1, 9, 10, 1234} {
		got, err := Parse(Format(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
