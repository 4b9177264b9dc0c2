package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_Rounding(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"already two digits", 12.34, 12.34},
		{"rounds down", 1.234, 1.23},
		{"half rounds up", 0.125, 0.13},
		{"negative half rounds toward positive", -0.125, -0.12},
		{"integer", 180, 180},
		{"negative zero normalized", -0.001, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMoney(tt.input).Amount())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add rounds the sum", func(t *testing.T) {
		sum := NewMoney(0.1).Add(NewMoney(0.2))
		assert.Equal(t, 0.3, sum.Amount())
	})

	t.Run("subtract", func(t *testing.T) {
		assert.Equal(t, 11.67, NewMoney(245).Subtract(NewMoney(233.33)).Amount())
	})

	t.Run("multiply", func(t *testing.T) {
		assert.Equal(t, 65.0, NewMoney(32.5).Multiply(2).Amount())
		assert.Equal(t, 12.25, NewMoney(245).Multiply(TaxRate).Amount())
	})

	t.Run("divide", func(t *testing.T) {
		got, err := NewMoney(245).Divide(1.05)
		require.NoError(t, err)
		assert.Equal(t, 233.33, got.Amount())
	})

	t.Run("divide by zero fails", func(t *testing.T) {
		_, err := NewMoney(10).Divide(0)
		assert.ErrorIs(t, err, ErrDivisionByZero)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("chained operations drift", func(t *testing.T) {
		third, err := NewMoney(10).Divide(3)
		require.NoError(t, err)
		assert.Equal(t, 3.33, third.Amount())
		assert.Equal(t, 9.99, third.Multiply(3).Amount())
	})

	t.Run("operations do not mutate the receiver", func(t *testing.T) {
		m := NewMoney(5)
		_ = m.Add(NewMoney(1))
		_ = m.Multiply(4)
		assert.Equal(t, 5.0, m.Amount())
	})
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoney(1)
	large := NewMoney(2)

	assert.True(t, large.IsGreaterThan(small))
	assert.False(t, small.IsGreaterThan(large))
	assert.True(t, small.IsLessThan(large))
	assert.True(t, Zero().IsZero())
	assert.False(t, small.IsZero())
	assert.True(t, NewMoney(-0.5).IsNegative())
	assert.False(t, small.IsNegative())

	// Equality is on the rounded amount
	assert.True(t, NewMoney(1.001).Equals(NewMoney(0.999)))
	assert.False(t, small.Equals(large))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "1,234.50", NewMoney(1234.5).String())
	assert.Equal(t, "0.00", Zero().String())
	assert.Equal(t, "257.25", NewMoney(257.25).String())
}
