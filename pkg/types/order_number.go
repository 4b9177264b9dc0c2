package types

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// OrderNumber is the opaque identifier printed on an order
type OrderNumber struct {
	value string
}

// NewOrderNumber validates and wraps an existing order number
func NewOrderNumber(value string) (OrderNumber, error) {
	if strings.TrimSpace(value) == "" {
		return OrderNumber{}, ErrInvalidOrderNo
	}
	return OrderNumber{value: value}, nil
}

// GenerateOrderNumber builds prefix + unix-millisecond timestamp + a
// three-digit zero-padded random suffix. Two calls in the same millisecond
// collide with probability 1/1000; uniqueness is enforced by storage.
func GenerateOrderNumber(prefix string, at time.Time) OrderNumber {
	return OrderNumber{
		value: fmt.Sprintf("%s%d%03d", prefix, at.UnixMilli(), rand.IntN(1000)),
	}
}

func (n OrderNumber) Value() string {
	return n.value
}

// IsZero reports whether the order number was never set
func (n OrderNumber) IsZero() bool {
	return n.value == ""
}

func (n OrderNumber) Equals(other OrderNumber) bool {
	return n.value == other.value
}

func (n OrderNumber) String() string {
	return n.value
}
