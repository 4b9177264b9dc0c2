package domain

import (
	"fmt"
	"strings"

	"github.com/dshills/orderdesk/pkg/types"
)

// CustomerParams holds the fields needed to build a Customer.
type CustomerParams struct {
	ID          string
	Code        string
	Name        string
	Address     string
	Phone       string
	CreditLimit types.Money
	Balance     types.Money
}

// Customer is an account that orders are placed against. Its balance
// accumulates the totals of orders created for it.
type Customer struct {
	id          string
	code        string
	name        string
	address     string
	phone       string
	creditLimit types.Money
	balance     types.Money
}

// NewCustomer validates params and returns a Customer.
func NewCustomer(p CustomerParams) (*Customer, error) {
	if err := requireNonEmpty("customer id", p.ID); err != nil {
		return nil, err
	}
	c := &Customer{
		id:      p.ID,
		address: p.Address,
		phone:   p.Phone,
		balance: p.Balance,
	}
	if err := c.SetCode(p.Code); err != nil {
		return nil, err
	}
	if err := c.SetName(p.Name); err != nil {
		return nil, err
	}
	if err := c.SetCreditLimit(p.CreditLimit); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Customer) ID() string { return c.id }
func (c *Customer) Code() string { return c.code }
func (c *Customer) Name() string { return c.name }
func (c *Customer) Address() string { return c.address }
func (c *Customer) Phone() string { return c.phone }
func (c *Customer) CreditLimit() types.Money { return c.creditLimit }
func (c *Customer) Balance() types.Money { return c.balance }
func (c *Customer) SetAddress(address string) { c.address = address }
func (c *Customer) SetPhone(phone string) { c.phone = phone }

func (c *Customer) SetCode(code string) error {
	if err := requireNonEmpty("customer code", code); err != nil {
		return err
	}
	c.code = code
	return nil
}

func (c *Customer) SetName(name string) error {
	if err := requireNonEmpty("customer name", name); err != nil {
		return err
	}
	c.name = name
	return nil
}

func (c *Customer) SetCreditLimit(limit types.Money) error {
	if limit.IsNegative() {
		return fmt.Errorf("%w: credit limit %s", types.ErrNegativeAmount, limit)
	}
	c.creditLimit = limit
	return nil
}

// CanPlaceOrder always allows the order; the credit limit is informational.
func (c *Customer) CanPlaceOrder(types.Money) bool {
	return true
}

func (c *Customer) AddToBalance(amount types.Money) {
	c.balance = c.balance.Add(amount)
}

// SubtractFromBalance fails when amount exceeds the current balance.
func (c *Customer) SubtractFromBalance(amount types.Money) error {
	if amount.IsGreaterThan(c.balance) {
		return fmt.Errorf("%w: cannot subtract %s from balance %s", types.ErrValidation, amount, c.balance)
	}
	c.balance = c.balance.Subtract(amount)
	return nil
}

func (c *Customer) Equals(other *Customer) bool {
	return other != nil && c.id == other.id
}

func requireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", types.ErrEmptyField, field)
	}
	return nil
}
