package domain

import (
	"fmt"
	"time"

	"github.com/dshills/orderdesk/pkg/types"
)

// Order is the aggregate root for an order and its lines. Totals are
// derived from the current items on every call and are never cached.
type Order struct {
	number      types.OrderNumber
	date        time.Time
	customer    *Customer
	salesperson *Salesperson
	items       []*OrderItem
	taxType     types.TaxType
	discount    types.Money
	paid        types.Money
	notes       string
	printed     bool

	droppedLines int
}

// NewOrder creates an empty order with tax type none.
func NewOrder(number types.OrderNumber, date time.Time, customer *Customer, salesperson *Salesperson) (*Order, error) {
	switch {
	case number.IsZero():
		return nil, fmt.Errorf("%w: order number", types.ErrEmptyField)
	case date.IsZero():
		return nil, fmt.Errorf("%w: order date", types.ErrEmptyField)
	case customer == nil:
		return nil, fmt.Errorf("%w: order customer", types.ErrEmptyField)
	case salesperson == nil:
		return nil, fmt.Errorf("%w: order salesperson", types.ErrEmptyField)
	}
	return &Order{
		number:      number,
		date:        date,
		customer:    customer,
		salesperson: salesperson,
		taxType:     types.TaxNone,
	}, nil
}

func (o *Order) Number() types.OrderNumber { return o.number }
func (o *Order) ID() string { return o.number.Value() }
func (o *Order) Date() time.Time { return o.date }
func (o *Order) Customer() *Customer { return o.customer }
func (o *Order) Salesperson() *Salesperson { return o.salesperson }
func (o *Order) TaxType() types.TaxType { return o.taxType }
func (o *Order) Discount() types.Money { return o.discount }
func (o *Order) PaidAmount() types.Money { return o.paid }
func (o *Order) Notes() string { return o.notes }
func (o *Order) IsPrinted() bool { return o.printed }
func (o *Order) SetNotes(notes string) { o.notes = notes }

// RecordDroppedLines notes how many stored lines could not be rebuilt when
// the order was loaded. An order with dropped lines is incomplete.
func (o *Order) RecordDroppedLines(n int) { o.droppedLines = n }

// DroppedLines returns the count recorded by RecordDroppedLines
func (o *Order) DroppedLines() int { return o.droppedLines }

// MarkPrinted flags the order as printed. There is no way back.
func (o *Order) MarkPrinted() { o.printed = true }

// Items returns a copy of the lines in insertion order.
func (o *Order) Items() []*OrderItem {
	out := make([]*OrderItem, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) AddItem(item *OrderItem) error {
	if item == nil {
		return fmt.Errorf("%w: order item", types.ErrEmptyField)
	}
	o.items = append(o.items, item)
	return nil
}

// RemoveItem drops the line at index. Out-of-range indexes are ignored.
func (o *Order) RemoveItem(index int) {
	if index < 0 || index >= len(o.items) {
		return
	}
	o.items = append(o.items[:index], o.items[index+1:]...)
}

func (o *Order) SetDiscount(amount types.Money) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: discount %s", types.ErrNegativeAmount, amount)
	}
	o.discount = amount
	return nil
}

func (o *Order) SetPaidAmount(amount types.Money) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: paid amount %s", types.ErrNegativeAmount, amount)
	}
	o.paid = amount
	return nil
}

func (o *Order) SetTaxType(t types.TaxType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o.taxType = t
	return nil
}

// Subtotal sums item subtotals left to right starting from zero.
func (o *Order) Subtotal() types.Money {
	sum := types.Zero()
	for _, item := range o.items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// Tax applies the tax type to the discounted subtotal.
func (o *Order) Tax() (types.Money, error) {
	return types.CalculateTax(o.Subtotal().Subtract(o.discount), o.taxType)
}

// Total is the discounted subtotal, plus tax only for external tax. Internal
// tax is already embedded in the prices.
func (o *Order) Total() (types.Money, error) {
	tax, err := o.Tax()
	if err != nil {
		return types.Money{}, err
	}
	total := o.Subtotal().Subtract(o.discount)
	if o.taxType == types.TaxExternal {
		total = total.Add(tax)
	}
	return total, nil
}

// RemainingAmount is Total minus the paid amount. Overpayment yields a
// negative value.
func (o *Order) RemainingAmount() (types.Money, error) {
	total, err := o.Total()
	if err != nil {
		return types.Money{}, err
	}
	return total.Subtract(o.paid), nil
}
