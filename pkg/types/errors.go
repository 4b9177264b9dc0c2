package types

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every validation failure raised by value
// objects and entities. Use errors.Is(err, ErrValidation) to classify.
var ErrValidation = errors.New("validation failed")

// Domain errors for value validation
var (
	ErrDivisionByZero   = fmt.Errorf("%w: cannot divide by zero", ErrValidation)
	ErrNegativeAmount   = fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	ErrUnknownTaxType   = fmt.Errorf("%w: unknown tax type", ErrValidation)
	ErrEmptyField       = fmt.Errorf("%w: required field is empty", ErrValidation)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	ErrInvalidDateRange = fmt.Errorf("%w: end date cannot be before start date", ErrValidation)
	ErrInvalidOrderNo   = fmt.Errorf("%w: invalid order number format", ErrValidation)
)
