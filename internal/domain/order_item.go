package domain

import (
	"fmt"

	"github.com/dshills/orderdesk/pkg/types"
)

// OrderItem is one line of an order: a product drawn from a warehouse.
type OrderItem struct {
	product       *Product
	quantity      int
	warehouse     *Warehouse
	specification string

	// price captured when the line was persisted; nil for fresh items
	snapshot *types.Money
}

// NewOrderItem builds a line. Quantity must be at least one.
func NewOrderItem(product *Product, quantity int, warehouse *Warehouse, specification string) (*OrderItem, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: order item product", types.ErrEmptyField)
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: order item warehouse", types.ErrEmptyField)
	}
	item := &OrderItem{product: product, warehouse: warehouse, specification: specification}
	if err := item.SetQuantity(quantity); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *OrderItem) Product() *Product { return i.product }
func (i *OrderItem) Quantity() int { return i.quantity }
func (i *OrderItem) Warehouse() *Warehouse { return i.warehouse }
func (i *OrderItem) Specification() string { return i.specification }
func (i *OrderItem) SetSpecification(s string) { i.specification = s }

func (i *OrderItem) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", types.ErrInvalidQuantity, quantity)
	}
	i.quantity = quantity
	return nil
}

func (i *OrderItem) SetWarehouse(w *Warehouse) error {
	if w == nil {
		return fmt.Errorf("%w: order item warehouse", types.ErrEmptyField)
	}
	i.warehouse = w
	return nil
}

// Subtotal is the live product price times quantity, computed on every call.
func (i *OrderItem) Subtotal() types.Money {
	return i.product.Price().Multiply(float64(i.quantity))
}

// RecordPriceSnapshot attaches the unit price stored with the line.
func (i *OrderItem) RecordPriceSnapshot(price types.Money) {
	i.snapshot = &price
}

// PriceSnapshot returns the stored unit price, if the item was loaded from
// storage. It never affects Subtotal.
func (i *OrderItem) PriceSnapshot() (types.Money, bool) {
	if i.snapshot == nil {
		return types.Money{}, false
	}
	return *i.snapshot, true
}

// Equals compares product, quantity, warehouse and specification.
func (i *OrderItem) Equals(other *OrderItem) bool {
	if other == nil {
		return false
	}
	return i.product.Equals(other.product) &&
		i.quantity == other.quantity &&
		i.warehouse.Equals(other.warehouse) &&
		i.specification == other.specification
}
