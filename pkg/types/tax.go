package types

import (
	"fmt"
	"strings"
)

// TaxType selects how tax is derived from the discounted subtotal
type TaxType string

const (
	// TaxNone applies no tax
	TaxNone TaxType = "none"
	// TaxExternal adds tax on top of the discounted subtotal
	TaxExternal TaxType = "external"
	// TaxInternal extracts tax already embedded in the discounted subtotal
	TaxInternal TaxType = "internal"
)

// TaxRate is the fixed sales tax rate (5%)
const TaxRate = 0.05

// ParseTaxType converts a tag into a TaxType, rejecting unknown tags
func ParseTaxType(s string) (TaxType, error) {
	t := TaxType(strings.ToLower(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks that the tax type is one of the known tags
func (t TaxType) Validate() error {
	switch t {
	case TaxNone, TaxExternal, TaxInternal:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTaxType, string(t))
	}
}

func (t TaxType) String() string {
	return string(t)
}

// CalculateTax returns the tax owed on amount under the given tax type.
func CalculateTax(amount Money, taxType TaxType) (Money, error) {
	switch taxType {
	case TaxExternal:
		return amount.Multiply(TaxRate), nil
	case TaxInternal:
		net, err := amount.Divide(1 + TaxRate)
		if err != nil {
			return Money{}, err
		}
		return amount.Subtract(net), nil
	case TaxNone:
		return Zero(), nil
	default:
		return Money{}, fmt.Errorf("%w: %q", ErrUnknownTaxType, string(taxType))
	}
}
