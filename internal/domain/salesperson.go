package domain

import (
	"fmt"

	"github.com/dshills/orderdesk/pkg/types"
)

// SalespersonParams holds the fields needed to build a Salesperson.
type SalespersonParams struct {
	ID         string
	Name       string
	Code       string
	Commission float64 // percent, 0..100
	Active     bool
	TotalSales types.Money
}

// Salesperson books orders and accumulates their totals.
type Salesperson struct {
	id         string
	name       string
	code       string
	commission float64
	active     bool
	totalSales types.Money
}

func NewSalesperson(p SalespersonParams) (*Salesperson, error) {
	if err := requireNonEmpty("salesperson id", p.ID); err != nil {
		return nil, err
	}
	s := &Salesperson{id: p.ID, active: p.Active, totalSales: p.TotalSales}
	if err := s.SetName(p.Name); err != nil {
		return nil, err
	}
	if err := s.SetCode(p.Code); err != nil {
		return nil, err
	}
	if err := s.SetCommission(p.Commission); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Salesperson) ID() string { return s.id }
func (s *Salesperson) Name() string { return s.name }
func (s *Salesperson) Code() string { return s.code }
func (s *Salesperson) Commission() float64 { return s.commission }
func (s *Salesperson) IsActive() bool { return s.active }
func (s *Salesperson) TotalSales() types.Money { return s.totalSales }
func (s *Salesperson) Activate() { s.active = true }
func (s *Salesperson) Deactivate() { s.active = false }

func (s *Salesperson) SetName(name string) error {
	if err := requireNonEmpty("salesperson name", name); err != nil {
		return err
	}
	s.name = name
	return nil
}

func (s *Salesperson) SetCode(code string) error {
	if err := requireNonEmpty("salesperson code", code); err != nil {
		return err
	}
	s.code = code
	return nil
}

// SetCommission sets the commission percent, which must lie in [0, 100].
func (s *Salesperson) SetCommission(percent float64) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: commission %.2f must be between 0 and 100", types.ErrValidation, percent)
	}
	s.commission = percent
	return nil
}

func (s *Salesperson) AddSale(amount types.Money) {
	s.totalSales = s.totalSales.Add(amount)
}

// CommissionAmount returns the commission earned on sale.
func (s *Salesperson) CommissionAmount(sale types.Money) types.Money {
	return sale.Multiply(s.commission / 100)
}

func (s *Salesperson) CanMakeSales() bool {
	return s.active
}

func (s *Salesperson) Equals(other *Salesperson) bool {
	return other != nil && s.id == other.id
}
