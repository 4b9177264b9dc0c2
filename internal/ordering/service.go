package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

// OrderRepository persists a newly created order
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
}

// Publisher announces created orders to other parts of the system
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *domain.Order, total types.Money) error
}

// Recorder receives outcome counts for created and failed orders
type Recorder interface {
	OrderCreated(total types.Money)
	OrderFailed(reason string)
}

// Failure reasons passed to Recorder.OrderFailed
const (
	ReasonValidation  = "validation"
	ReasonNotFound    = "not_found"
	ReasonRejected    = "rejected"
	ReasonPersistence = "persistence"
	ReasonPostCreate  = "post_create"
	ReasonInternal    = "internal"
)

// ItemInput is one requested order line
type ItemInput struct {
	ProductID     string
	Quantity      int
	WarehouseID   string
	Specification string
}

// CreateOrderCommand carries the clerk's selections
type CreateOrderCommand struct {
	CustomerID    string
	SalespersonID string
	TaxType       types.TaxType
	Notes         string
	Discount      types.Money
	PaidAmount    types.Money
	Items         []ItemInput
}

// Deps wires the service. Orders and Lookups are required; the rest default.
type Deps struct {
	Orders    OrderRepository
	Lookups   Lookups
	Publisher Publisher
	Recorder  Recorder
	Logger    *zap.Logger

	// Now defaults to time.Now
	Now func() time.Time
	// NewOrderNumber defaults to GenerateOrderNumber with OrderNumberPrefix
	NewOrderNumber    func(at time.Time) types.OrderNumber
	OrderNumberPrefix string
}

// Service runs the order creation use case
type Service struct {
	orders    OrderRepository
	lookups   Lookups
	publisher Publisher
	recorder  Recorder
	logger    *zap.Logger
	now       func() time.Time
	newNumber func(time.Time) types.OrderNumber
}

// NewService validates deps and fills in defaults
func NewService(deps Deps) (*Service, error) {
	if deps.Orders == nil {
		return nil, errors.New("ordering: order repository is required")
	}
	if err := deps.Lookups.validate(); err != nil {
		return nil, err
	}

	s := &Service{
		orders:    deps.Orders,
		lookups:   deps.Lookups,
		publisher: deps.Publisher,
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		now:       deps.Now,
		newNumber: deps.NewOrderNumber,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newNumber == nil {
		prefix := deps.OrderNumberPrefix
		s.newNumber = func(at time.Time) types.OrderNumber {
			return types.GenerateOrderNumber(prefix, at)
		}
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	return s, nil
}

// CreateOrder resolves references, assembles and persists the order, then
// applies the balance side effects and publishes OrderCreated.
//
// Any failure before persistence leaves no trace. A failure after
// persistence returns the created order together with an error wrapping
// ErrPostCreate.
func (s *Service) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	order, total, err := s.assemble(ctx, cmd)
	if err != nil {
		s.recorder.OrderFailed(failureReason(err))
		s.logger.Info("order rejected",
			zap.String("customer_id", cmd.CustomerID),
			zap.String("salesperson_id", cmd.SalespersonID),
			zap.Error(err))
		return nil, err
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.recorder.OrderFailed(ReasonPersistence)
		s.logger.Error("failed to persist order",
			zap.String("order_number", order.ID()), zap.Error(err))
		return nil, err
	}

	// In-memory accumulators; the stored balances are updated by whoever
	// consumes OrderCreated.
	order.Customer().AddToBalance(total)
	order.Salesperson().AddSale(total)

	s.recorder.OrderCreated(total)
	s.logger.Info("order created",
		zap.String("order_number", order.ID()),
		zap.String("customer_id", order.Customer().ID()),
		zap.Int("items", len(order.Items())),
		zap.Stringer("total", total))

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order, total); err != nil {
			s.recorder.OrderFailed(ReasonPostCreate)
			s.logger.Warn("failed to publish order created",
				zap.String("order_number", order.ID()), zap.Error(err))
			return order, fmt.Errorf("%w: publish: %w", ErrPostCreate, err)
		}
	}
	return order, nil
}

func (s *Service) assemble(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, types.Money, error) {
	customer, salesperson, err := s.resolveParties(ctx, cmd.CustomerID, cmd.SalespersonID)
	if err != nil {
		return nil, types.Money{}, err
	}

	at := s.now()
	order, err := domain.NewOrder(s.newNumber(at), at, customer, salesperson)
	if err != nil {
		return nil, types.Money{}, err
	}

	taxType := cmd.TaxType
	if taxType == "" {
		taxType = types.TaxNone
	}
	if err := order.SetTaxType(taxType); err != nil {
		return nil, types.Money{}, err
	}
	order.SetNotes(cmd.Notes)
	if err := order.SetDiscount(cmd.Discount); err != nil {
		return nil, types.Money{}, err
	}
	if err := order.SetPaidAmount(cmd.PaidAmount); err != nil {
		return nil, types.Money{}, err
	}

	for i, in := range cmd.Items {
		item, err := s.buildItem(ctx, in)
		if err != nil {
			return nil, types.Money{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		if err := order.AddItem(item); err != nil {
			return nil, types.Money{}, err
		}
	}

	total, err := order.Total()
	if err != nil {
		return nil, types.Money{}, err
	}
	return order, total, nil
}

// resolveParties fetches customer and salesperson concurrently
func (s *Service) resolveParties(ctx context.Context, customerID, salespersonID string) (*domain.Customer, *domain.Salesperson, error) {
	var customer *domain.Customer
	var salesperson *domain.Salesperson

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.lookups.Customer(gctx, customerID)
		if err != nil {
			return fmt.Errorf("lookup customer %s: %w", customerID, err)
		}
		customer = c
		return nil
	})
	g.Go(func() error {
		sp, err := s.lookups.Salesperson(gctx, salespersonID)
		if err != nil {
			return fmt.Errorf("lookup salesperson %s: %w", salespersonID, err)
		}
		salesperson = sp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if customer == nil {
		return nil, nil, fmt.Errorf("%w: customer %s", ErrNotFound, customerID)
	}
	if salesperson == nil {
		return nil, nil, fmt.Errorf("%w: salesperson %s", ErrNotFound, salespersonID)
	}
	if !salesperson.CanMakeSales() {
		return nil, nil, fmt.Errorf("%w: salesperson %s is inactive", ErrRejected, salespersonID)
	}
	return customer, salesperson, nil
}

// buildItem fetches product and warehouse concurrently and builds the line
func (s *Service) buildItem(ctx context.Context, in ItemInput) (*domain.OrderItem, error) {
	var product *domain.Product
	var warehouse *domain.Warehouse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.lookups.Product(gctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("lookup product %s: %w", in.ProductID, err)
		}
		product = p
		return nil
	})
	g.Go(func() error {
		w, err := s.lookups.Warehouse(gctx, in.WarehouseID)
		if err != nil {
			return fmt.Errorf("lookup warehouse %s: %w", in.WarehouseID, err)
		}
		warehouse = w
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, in.ProductID)
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: warehouse %s", ErrNotFound, in.WarehouseID)
	}
	if !warehouse.CanAcceptOrders() {
		return nil, fmt.Errorf("%w: warehouse %s is inactive", ErrRejected, in.WarehouseID)
	}
	return domain.NewOrderItem(product, in.Quantity, warehouse, in.Specification)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrRejected):
		return ReasonRejected
	case errors.Is(err, types.ErrValidation):
		return ReasonValidation
	default:
		return ReasonInternal
	}
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated(types.Money) {}
func (nopRecorder) OrderFailed(string)       {}
