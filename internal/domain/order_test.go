package domain

import (
	"testing"
	"time"

	"github.com/dshills/orderdesk/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderItem(t *testing.T) {
	p := newTestProduct(t, "P1", 10)
	w := newTestWarehouse(t)

	for _, qty := range []int{0, -1, -100} {
		_, err := NewOrderItem(p, qty, w, "")
		assert.ErrorIs(t, err, types.ErrInvalidQuantity, "quantity %d", qty)
	}

	item, err := NewOrderItem(p, 1, w, "blue")
	require.NoError(t, err)
	assert.Equal(t, "blue", item.Specification())

	assert.ErrorIs(t, item.SetQuantity(0), types.ErrInvalidQuantity)
	assert.Equal(t, 1, item.Quantity())
	require.NoError(t, item.SetQuantity(3))
	assert.Equal(t, 30.0, item.Subtotal().Amount())

	_, err = NewOrderItem(nil, 1, w, "")
	assert.ErrorIs(t, err, types.ErrEmptyField)
	_, err = NewOrderItem(p, 1, nil, "")
	assert.ErrorIs(t, err, types.ErrEmptyField)
}

func TestOrderItem_SubtotalFollowsLivePrice(t *testing.T) {
	p := newTestProduct(t, "P1", 10)
	item, err := NewOrderItem(p, 2, newTestWarehouse(t), "")
	require.NoError(t, err)
	item.RecordPriceSnapshot(types.NewMoney(10))

	require.NoError(t, p.SetPrice(types.NewMoney(12)))
	assert.Equal(t, 24.0, item.Subtotal().Amount())

	snapshot, ok := item.PriceSnapshot()
	require.True(t, ok)
	assert.Equal(t, 10.0, snapshot.Amount())
}

func TestOrderItem_Equals(t *testing.T) {
	p := newTestProduct(t, "P1", 10)
	w := newTestWarehouse(t)

	a, _ := NewOrderItem(p, 2, w, "x")
	b, _ := NewOrderItem(p, 2, w, "x")
	c, _ := NewOrderItem(p, 2, w, "y")
	d, _ := NewOrderItem(p, 3, w, "x")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(d))
	_, ok := a.PriceSnapshot()
	assert.False(t, ok)
}

func TestNewOrder_Validation(t *testing.T) {
	number, _ := types.NewOrderNumber("SO-1")
	now := time.Now()
	c := newTestCustomer(t)
	s := newTestSalesperson(t)

	_, err := NewOrder(types.OrderNumber{}, now, c, s)
	assert.ErrorIs(t, err, types.ErrEmptyField)
	_, err = NewOrder(number, time.Time{}, c, s)
	assert.ErrorIs(t, err, types.ErrEmptyField)
	_, err = NewOrder(number, now, nil, s)
	assert.ErrorIs(t, err, types.ErrEmptyField)
	_, err = NewOrder(number, now, c, nil)
	assert.ErrorIs(t, err, types.ErrEmptyField)

	o, err := NewOrder(number, now, c, s)
	require.NoError(t, err)
	assert.Equal(t, types.TaxNone, o.TaxType())
	assert.False(t, o.IsPrinted())
	assert.True(t, o.Subtotal().IsZero())
}

func TestOrder_Totals(t *testing.T) {
	tests := []struct {
		name      string
		taxType   types.TaxType
		wantTax   float64
		wantTotal float64
	}{
		{"none", types.TaxNone, 0, 245},
		{"external", types.TaxExternal, 12.25, 257.25},
		{"internal", types.TaxInternal, 11.67, 245},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newSampleOrder(t)
			require.NoError(t, o.SetTaxType(tt.taxType))

			assert.Equal(t, 245.0, o.Subtotal().Amount())

			tax, err := o.Tax()
			require.NoError(t, err)
			assert.Equal(t, tt.wantTax, tax.Amount())

			total, err := o.Total()
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total.Amount())
		})
	}
}

func TestOrder_DiscountAndPayment(t *testing.T) {
	o := newSampleOrder(t)
	require.NoError(t, o.SetTaxType(types.TaxExternal))
	require.NoError(t, o.SetDiscount(types.NewMoney(45)))

	tax, err := o.Tax()
	require.NoError(t, err)
	assert.Equal(t, 10.0, tax.Amount())

	total, err := o.Total()
	require.NoError(t, err)
	assert.Equal(t, 210.0, total.Amount())

	require.NoError(t, o.SetPaidAmount(types.NewMoney(300)))
	remaining, err := o.RemainingAmount()
	require.NoError(t, err)
	assert.Equal(t, -90.0, remaining.Amount(), "overpayment is not clamped")
	assert.True(t, remaining.IsNegative())

	assert.ErrorIs(t, o.SetDiscount(types.NewMoney(-1)), types.ErrNegativeAmount)
	assert.ErrorIs(t, o.SetPaidAmount(types.NewMoney(-1)), types.ErrNegativeAmount)
	assert.Equal(t, 45.0, o.Discount().Amount())
	assert.Equal(t, 300.0, o.PaidAmount().Amount())
}

func TestOrder_SetTaxTypeRejectsUnknown(t *testing.T) {
	o := newTestOrder(t)
	err := o.SetTaxType(types.TaxType("vat"))
	assert.ErrorIs(t, err, types.ErrUnknownTaxType)
	assert.Equal(t, types.TaxNone, o.TaxType())
}

func TestOrder_RemoveItem(t *testing.T) {
	o := newSampleOrder(t)
	before := o.Items()

	o.RemoveItem(-1)
	o.RemoveItem(2)
	o.RemoveItem(100)
	assert.Equal(t, before, o.Items(), "out-of-range removal is a no-op")

	o.RemoveItem(0)
	items := o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].Product().ID())
	assert.Equal(t, 180.0, o.Subtotal().Amount())
}

func TestOrder_ItemsIsACopy(t *testing.T) {
	o := newSampleOrder(t)
	items := o.Items()
	items[0] = nil
	assert.NotNil(t, o.Items()[0])
}

func TestOrder_MarkPrinted(t *testing.T) {
	o := newTestOrder(t)
	o.MarkPrinted()
	o.MarkPrinted()
	assert.True(t, o.IsPrinted())
}

func TestOrder_TotalsFollowLivePrice(t *testing.T) {
	o := newSampleOrder(t)
	require.NoError(t, o.Items()[0].Product().SetPrice(types.NewMoney(30)))
	assert.Equal(t, 240.0, o.Subtotal().Amount())
}
