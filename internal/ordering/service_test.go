package ordering

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

// spyRepository records CreateOrder calls
type spyRepository struct {
	mu     sync.Mutex
	calls  int
	orders []*domain.Order
	err    error
}

func (r *spyRepository) CreateOrder(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.orders = append(r.orders, o)
	return nil
}

type spyPublisher struct {
	published []string
	totals    []types.Money
	err       error
}

func (p *spyPublisher) PublishOrderCreated(_ context.Context, o *domain.Order, total types.Money) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, o.ID())
	p.totals = append(p.totals, total)
	return nil
}

type spyRecorder struct {
	mu       sync.Mutex
	created  int
	failures []string
}

func (r *spyRecorder) OrderCreated(types.Money) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

func (r *spyRecorder) OrderFailed(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, reason)
}

// catalog is an in-memory reference store with lookup counters
type catalog struct {
	customers    map[string]*domain.Customer
	salespersons map[string]*domain.Salesperson
	products     map[string]*domain.Product
	warehouses   map[string]*domain.Warehouse

	productLookups   atomic.Int32
	warehouseLookups atomic.Int32
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	c, err := domain.NewCustomer(domain.CustomerParams{ID: "C1", Code: "C001", Name: "Taipei Trading"})
	require.NoError(t, err)
	active, err := domain.NewSalesperson(domain.SalespersonParams{ID: "S1", Code: "S01", Name: "Wang", Active: true})
	require.NoError(t, err)
	idle, err := domain.NewSalesperson(domain.SalespersonParams{ID: "S2", Code: "S02", Name: "Chen"})
	require.NoError(t, err)
	diesel, err := domain.NewProduct(domain.ProductParams{ID: "P1", Name: "Diesel", Price: types.NewMoney(32.5), Unit: "litre"})
	require.NoError(t, err)
	gearOil, err := domain.NewProduct(domain.ProductParams{ID: "P2", Name: "Gear oil", Price: types.NewMoney(180), Unit: "bottle"})
	require.NoError(t, err)
	mainWh, err := domain.NewWarehouse(domain.WarehouseParams{ID: "W1", Name: "Main", Location: "North", Active: true})
	require.NoError(t, err)
	closed, err := domain.NewWarehouse(domain.WarehouseParams{ID: "W2", Name: "Spares", Location: "South"})
	require.NoError(t, err)

	return &catalog{
		customers:    map[string]*domain.Customer{"C1": c},
		salespersons: map[string]*domain.Salesperson{"S1": active, "S2": idle},
		products:     map[string]*domain.Product{"P1": diesel, "P2": gearOil},
		warehouses:   map[string]*domain.Warehouse{"W1": mainWh, "W2": closed},
	}
}

func (c *catalog) lookups() Lookups {
	return Lookups{
		Customer: func(_ context.Context, id string) (*domain.Customer, error) {
			return c.customers[id], nil
		},
		Salesperson: func(_ context.Context, id string) (*domain.Salesperson, error) {
			return c.salespersons[id], nil
		},
		Product: func(_ context.Context, id string) (*domain.Product, error) {
			c.productLookups.Add(1)
			return c.products[id], nil
		},
		Warehouse: func(_ context.Context, id string) (*domain.Warehouse, error) {
			c.warehouseLookups.Add(1)
			return c.warehouses[id], nil
		},
	}
}

type fixture struct {
	svc       *Service
	repo      *spyRepository
	publisher *spyPublisher
	recorder  *spyRecorder
	catalog   *catalog
}

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      &spyRepository{},
		publisher: &spyPublisher{},
		recorder:  &spyRecorder{},
		catalog:   newCatalog(t),
	}
	svc, err := NewService(Deps{
		Orders:            f.repo,
		Lookups:           f.catalog.lookups(),
		Publisher:         f.publisher,
		Recorder:          f.recorder,
		Now:               func() time.Time { return fixedNow },
		OrderNumberPrefix: "SO",
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func sampleCommand() CreateOrderCommand {
	return CreateOrderCommand{
		CustomerID:    "C1",
		SalespersonID: "S1",
		TaxType:       types.TaxExternal,
		Notes:         "rush",
		Items: []ItemInput{
			{ProductID: "P1", Quantity: 2, WarehouseID: "W1"},
			{ProductID: "P2", Quantity: 1, WarehouseID: "W1", Specification: "blue cap"},
		},
	}
}

func TestNewService_RequiresDeps(t *testing.T) {
	_, err := NewService(Deps{})
	assert.Error(t, err)

	_, err = NewService(Deps{Orders: &spyRepository{}})
	assert.Error(t, err)

	svc, err := NewService(Deps{Orders: &spyRepository{}, Lookups: newCatalog(t).lookups()})
	require.NoError(t, err)
	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.now)
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.CreateOrder(context.Background(), sampleCommand())
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Regexp(t, `^SO\d{16}$`, order.ID())
	assert.Equal(t, fixedNow, order.Date())
	assert.Equal(t, "rush", order.Notes())

	total, err := order.Total()
	require.NoError(t, err)
	assert.Equal(t, 257.25, total.Amount())

	items := order.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "P1", items[0].Product().ID())
	assert.Equal(t, "blue cap", items[1].Specification())

	assert.Equal(t, 1, f.repo.calls)
	assert.Equal(t, []string{order.ID()}, f.publisher.published)
	assert.Equal(t, 257.25, f.publisher.totals[0].Amount())
	assert.Equal(t, 1, f.recorder.created)

	// In-memory side effects
	assert.Equal(t, 257.25, f.catalog.customers["C1"].Balance().Amount())
	assert.Equal(t, 257.25, f.catalog.salespersons["S1"].TotalSales().Amount())
}

func TestCreateOrder_InternalTaxWithDiscountAndPayment(t *testing.T) {
	f := newFixture(t)
	cmd := sampleCommand()
	cmd.TaxType = types.TaxInternal
	cmd.Discount = types.NewMoney(45)
	cmd.PaidAmount = types.NewMoney(250)

	order, err := f.svc.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)

	total, err := order.Total()
	require.NoError(t, err)
	assert.Equal(t, 200.0, total.Amount())

	remaining, err := order.RemainingAmount()
	require.NoError(t, err)
	assert.Equal(t, -50.0, remaining.Amount())
}

func TestCreateOrder_UnknownCustomerFailsFirst(t *testing.T) {
	f := newFixture(t)
	cmd := sampleCommand()
	cmd.CustomerID = "C404"

	order, err := f.svc.CreateOrder(context.Background(), cmd)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "C404")

	assert.Zero(t, f.repo.calls, "repository must not be called")
	assert.Zero(t, f.catalog.productLookups.Load(), "no item lookups")
	assert.Zero(t, f.catalog.warehouseLookups.Load(), "no item lookups")
	assert.Empty(t, f.publisher.published)
	assert.Equal(t, []string{ReasonNotFound}, f.recorder.failures)
}

func TestCreateOrder_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOrderCommand)
		want   error
		reason string
	}{
		{
			name:   "unknown salesperson",
			mutate: func(c *CreateOrderCommand) { c.SalespersonID = "S404" },
			want:   ErrNotFound,
			reason: ReasonNotFound,
		},
		{
			name:   "inactive salesperson",
			mutate: func(c *CreateOrderCommand) { c.SalespersonID = "S2" },
			want:   ErrRejected,
			reason: ReasonRejected,
		},
		{
			name:   "unknown product",
			mutate: func(c *CreateOrderCommand) { c.Items[1].ProductID = "P404" },
			want:   ErrNotFound,
			reason: ReasonNotFound,
		},
		{
			name:   "unknown warehouse",
			mutate: func(c *CreateOrderCommand) { c.Items[0].WarehouseID = "W404" },
			want:   ErrNotFound,
			reason: ReasonNotFound,
		},
		{
			name:   "inactive warehouse",
			mutate: func(c *CreateOrderCommand) { c.Items[0].WarehouseID = "W2" },
			want:   ErrRejected,
			reason: ReasonRejected,
		},
		{
			name:   "zero quantity",
			mutate: func(c *CreateOrderCommand) { c.Items[0].Quantity = 0 },
			want:   types.ErrInvalidQuantity,
			reason: ReasonValidation,
		},
		{
			name:   "negative discount",
			mutate: func(c *CreateOrderCommand) { c.Discount = types.NewMoney(-5) },
			want:   types.ErrNegativeAmount,
			reason: ReasonValidation,
		},
		{
			name:   "negative payment",
			mutate: func(c *CreateOrderCommand) { c.PaidAmount = types.NewMoney(-5) },
			want:   types.ErrNegativeAmount,
			reason: ReasonValidation,
		},
		{
			name:   "unknown tax type",
			mutate: func(c *CreateOrderCommand) { c.TaxType = "vat" },
			want:   types.ErrUnknownTaxType,
			reason: ReasonValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cmd := sampleCommand()
			tt.mutate(&cmd)

			order, err := f.svc.CreateOrder(context.Background(), cmd)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.repo.calls)
			assert.Empty(t, f.publisher.published)
			assert.Equal(t, []string{tt.reason}, f.recorder.failures)
			assert.True(t, f.catalog.customers["C1"].Balance().IsZero())
		})
	}
}

func TestCreateOrder_PersistenceErrorPassesThrough(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk full")
	f.repo.err = boom

	order, err := f.svc.CreateOrder(context.Background(), sampleCommand())
	assert.Nil(t, order)
	assert.Same(t, boom, err)
	assert.Empty(t, f.publisher.published)
	assert.True(t, f.catalog.customers["C1"].Balance().IsZero())
	assert.Equal(t, []string{ReasonPersistence}, f.recorder.failures)
}

func TestCreateOrder_PublishFailureKeepsOrder(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	order, err := f.svc.CreateOrder(context.Background(), sampleCommand())
	require.NotNil(t, order)
	assert.ErrorIs(t, err, ErrPostCreate)
	assert.Equal(t, 1, f.repo.calls)
	assert.Equal(t, 257.25, f.catalog.customers["C1"].Balance().Amount())
}

func TestCreateOrder_LookupErrorAborts(t *testing.T) {
	f := newFixture(t)
	lookupErr := errors.New("connection reset")
	lookups := f.catalog.lookups()
	lookups.Customer = func(context.Context, string) (*domain.Customer, error) {
		return nil, lookupErr
	}
	svc, err := NewService(Deps{Orders: f.repo, Lookups: lookups, Recorder: f.recorder})
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), sampleCommand())
	assert.ErrorIs(t, err, lookupErr)
	assert.Zero(t, f.repo.calls)
	assert.Equal(t, []string{ReasonInternal}, f.recorder.failures)
}

func TestCreateOrder_CustomNumberGenerator(t *testing.T) {
	f := newFixture(t)
	svc, err := NewService(Deps{
		Orders:  f.repo,
		Lookups: f.catalog.lookups(),
		NewOrderNumber: func(time.Time) types.OrderNumber {
			n, _ := types.NewOrderNumber("FIXED-1")
			return n
		},
	})
	require.NoError(t, err)

	order, err := svc.CreateOrder(context.Background(), sampleCommand())
	require.NoError(t, err)
	assert.Equal(t, "FIXED-1", order.ID())
}

func TestCreateOrder_EmptyTaxTypeDefaultsToNone(t *testing.T) {
	f := newFixture(t)
	cmd := sampleCommand()
	cmd.TaxType = ""

	order, err := f.svc.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, types.TaxNone, order.TaxType())
}
