package domain

import (
	"testing"
	"time"

	"github.com/dshills/orderdesk/pkg/types"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := NewCustomer(CustomerParams{ID: "C1", Code: "C001", Name: "Taipei Trading"})
	require.NoError(t, err)
	return c
}

func newTestSalesperson(t *testing.T) *Salesperson {
	t.Helper()
	s, err := NewSalesperson(SalespersonParams{ID: "S1", Name: "Wang", Code: "S01", Commission: 5, Active: true})
	require.NoError(t, err)
	return s
}

func newTestProduct(t *testing.T, id string, price float64) *Product {
	t.Helper()
	p, err := NewProduct(ProductParams{ID: id, Name: "product " + id, Price: types.NewMoney(price), Unit: "unit"})
	require.NoError(t, err)
	return p
}

func newTestWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	w, err := NewWarehouse(WarehouseParams{ID: "W1", Name: "Main", Location: "North", Active: true})
	require.NoError(t, err)
	return w
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	number, err := types.NewOrderNumber("SO-1")
	require.NoError(t, err)
	o, err := NewOrder(number, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), newTestCustomer(t), newTestSalesperson(t))
	require.NoError(t, err)
	return o
}

// newSampleOrder returns an order with lines 32.5 x 2 and 180 x 1.
func newSampleOrder(t *testing.T) *Order {
	t.Helper()
	o := newTestOrder(t)
	wh := newTestWarehouse(t)

	diesel, err := NewOrderItem(newTestProduct(t, "P1", 32.5), 2, wh, "")
	require.NoError(t, err)
	gearOil, err := NewOrderItem(newTestProduct(t, "P2", 180), 1, wh, "")
	require.NoError(t, err)

	require.NoError(t, o.AddItem(diesel))
	require.NoError(t, o.AddItem(gearOil))
	return o
}
