package domain

import (
	"fmt"

	"github.com/dshills/orderdesk/pkg/types"
)

// ProductParams holds the fields needed to build a Product.
type ProductParams struct {
	ID          string
	Name        string
	Price       types.Money
	Unit        string
	Description string
}

// Product is a sellable item with a live unit price.
type Product struct {
	id          string
	name        string
	price       types.Money
	unit        string
	description string
}

func NewProduct(p ProductParams) (*Product, error) {
	if err := requireNonEmpty("product id", p.ID); err != nil {
		return nil, err
	}
	prod := &Product{id: p.ID, description: p.Description}
	if err := prod.SetName(p.Name); err != nil {
		return nil, err
	}
	if err := prod.SetPrice(p.Price); err != nil {
		return nil, err
	}
	if err := prod.SetUnit(p.Unit); err != nil {
		return nil, err
	}
	return prod, nil
}

func (p *Product) ID() string { return p.id }
func (p *Product) Name() string { return p.name }
func (p *Product) Price() types.Money { return p.price }
func (p *Product) Unit() string { return p.unit }
func (p *Product) Description() string { return p.description }

func (p *Product) SetDescription(description string) { p.description = description }

func (p *Product) SetName(name string) error {
	if err := requireNonEmpty("product name", name); err != nil {
		return err
	}
	p.name = name
	return nil
}

// SetPrice changes the live price. Items referencing this product see the
// new price on their next subtotal.
func (p *Product) SetPrice(price types.Money) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: product price %s", types.ErrNegativeAmount, price)
	}
	p.price = price
	return nil
}

func (p *Product) SetUnit(unit string) error {
	if err := requireNonEmpty("product unit", unit); err != nil {
		return err
	}
	p.unit = unit
	return nil
}

// IsPriceInRange reports whether min <= price <= max.
func (p *Product) IsPriceInRange(min, max types.Money) bool {
	return !p.price.IsLessThan(min) && !p.price.IsGreaterThan(max)
}

func (p *Product) Equals(other *Product) bool {
	return other != nil && p.id == other.id
}
