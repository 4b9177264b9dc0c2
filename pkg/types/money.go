package types

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money is an immutable monetary amount held at two fraction digits.
//
// The amount is a float64 rounded at construction and again after every
// arithmetic operation. Chained multiply/divide can therefore drift from an
// exact decimal result; that drift is part of the observable behavior.
type Money struct {
	amount float64
}

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// NewMoney returns amount rounded to two fraction digits.
func NewMoney(amount float64) Money {
	return Money{amount: round2(amount)}
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{}
}

// round2 rounds half toward positive infinity, matching Math.round(x*100)/100.
func round2(v float64) float64 {
	r := math.Floor(v*100+0.5) / 100
	if r == 0 {
		return 0 // normalize -0
	}
	return r
}

// Amount returns the rounded amount.
func (m Money) Amount() float64 {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return NewMoney(m.amount + other.amount)
}

func (m Money) Subtract(other Money) Money {
	return NewMoney(m.amount - other.amount)
}

func (m Money) Multiply(factor float64) Money {
	return NewMoney(m.amount * factor)
}

// Divide returns m / divisor, or ErrDivisionByZero when divisor is exactly zero.
func (m Money) Divide(divisor float64) (Money, error) {
	if divisor == 0 {
		return Money{}, ErrDivisionByZero
	}
	return NewMoney(m.amount / divisor), nil
}

func (m Money) IsNegative() bool {
	return m.amount < 0
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

func (m Money) IsGreaterThan(other Money) bool {
	return m.amount > other.amount
}

func (m Money) IsLessThan(other Money) bool {
	return m.amount < other.amount
}

// Equals reports whether both rounded amounts are identical.
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount
}

// String renders the amount with two fraction digits and en-US grouping,
// e.g. "1,234.50".
func (m Money) String() string {
	return moneyPrinter.Sprint(number.Decimal(m.amount, number.Scale(2)))
}
