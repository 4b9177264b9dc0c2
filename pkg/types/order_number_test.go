package types

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumber(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	n := GenerateOrderNumber("SO", at)

	pattern := regexp.MustCompile(`^SO1700000000123\d{3}$`)
	assert.Regexp(t, pattern, n.Value())
	assert.False(t, n.IsZero())
	assert.Equal(t, n.Value(), n.String())
}

func TestGenerateOrderNumber_EmptyPrefix(t *testing.T) {
	at := time.UnixMilli(42)
	n := GenerateOrderNumber("", at)

	// 42 followed by the three-digit suffix
	require.Len(t, n.Value(), 5)
	_, err := strconv.Atoi(n.Value())
	assert.NoError(t, err)
}

func TestNewOrderNumber(t *testing.T) {
	n, err := NewOrderNumber("SO-1")
	require.NoError(t, err)
	assert.Equal(t, "SO-1", n.Value())

	other, err := NewOrderNumber("SO-1")
	require.NoError(t, err)
	assert.True(t, n.Equals(other))

	_, err = NewOrderNumber("   ")
	assert.ErrorIs(t, err, ErrInvalidOrderNo)
	assert.ErrorIs(t, err, ErrValidation)

	assert.True(t, OrderNumber{}.IsZero())
}
