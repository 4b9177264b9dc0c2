package ordering

import "errors"

var (
	// ErrNotFound is returned when a referenced customer, salesperson,
	// product or warehouse does not resolve
	ErrNotFound = errors.New("referenced entity not found")
	// ErrRejected is returned when a business rule refuses the order, such
	// as an inactive salesperson or warehouse
	ErrRejected = errors.New("order rejected")
	// ErrPostCreate is returned alongside a persisted order when a follow-up
	// step failed. The order is not rolled back.
	ErrPostCreate = errors.New("order created but follow-up failed")
)
