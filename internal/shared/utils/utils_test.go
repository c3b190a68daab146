package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalDecimal(t *testing.T) {
	d, err := ParseOptionalDecimal(" $1,250,000.50 ")
	require.NoError(t, err)
	assert.Equal(t, "1250000.50", DecimalString(d))

	d, err = ParseOptionalDecimal("")
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, "", DecimalString(d))

	_, err = ParseOptionalDecimal("lots")
	assert.Error(t, err)
}

func TestStringHelpers(t *testing.T) {
	assert.Nil(t, NullIfEmpty("   "))
	assert.Equal(t, "x", *NullIfEmpty(" x "))
	assert.Equal(t, "", Deref(nil))
}
