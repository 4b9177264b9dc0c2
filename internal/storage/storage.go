package storage

import (
	"context"
	"time"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

// Storage defines the interface for persisting and querying orders and the
// reference data they point at
type Storage interface {
	// Customer operations
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, c *domain.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
	FindCustomerByCode(ctx context.Context, code string) (*domain.Customer, error)
	FindCustomersByName(ctx context.Context, name string) ([]*domain.Customer, error)
	FindCustomersByBalanceAbove(ctx context.Context, amount types.Money) ([]*domain.Customer, error)
	FindCustomersWithOverdueOrders(ctx context.Context, dueBefore time.Time) ([]*domain.Customer, error)
	AdjustCustomerBalance(ctx context.Context, id string, delta types.Money) error

	// Product operations
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	FindProductsByName(ctx context.Context, name string) ([]*domain.Product, error)
	FindProductsByPriceRange(ctx context.Context, min, max types.Money) ([]*domain.Product, error)
	FindProductsByUnit(ctx context.Context, unit string) ([]*domain.Product, error)

	// Warehouse operations
	CreateWarehouse(ctx context.Context, w *domain.Warehouse) error
	GetWarehouse(ctx context.Context, id string) (*domain.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, w *domain.Warehouse) error
	DeleteWarehouse(ctx context.Context, id string) error
	FindWarehousesByName(ctx context.Context, name string) ([]*domain.Warehouse, error)
	FindWarehousesByLocation(ctx context.Context, location string) ([]*domain.Warehouse, error)
	ListActiveWarehouses(ctx context.Context) ([]*domain.Warehouse, error)

	// Salesperson operations
	CreateSalesperson(ctx context.Context, sp *domain.Salesperson) error
	GetSalesperson(ctx context.Context, id string) (*domain.Salesperson, error)
	ListSalespersons(ctx context.Context) ([]*domain.Salesperson, error)
	UpdateSalesperson(ctx context.Context, sp *domain.Salesperson) error
	DeleteSalesperson(ctx context.Context, id string) error
	FindSalespersonsByName(ctx context.Context, name string) ([]*domain.Salesperson, error)
	FindSalespersonByCode(ctx context.Context, code string) (*domain.Salesperson, error)
	ListActiveSalespersons(ctx context.Context) ([]*domain.Salesperson, error)
	FindSalespersonsBySalesAbove(ctx context.Context, amount types.Money) ([]*domain.Salesperson, error)
	AdjustSalespersonSales(ctx context.Context, id string, delta types.Money) error

	// Order operations
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, o *domain.Order) error
	DeleteOrder(ctx context.Context, id string) error
	FindOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	FindOrdersByDateRange(ctx context.Context, r types.DateRange) ([]*domain.Order, error)
	FindUnpaidOrders(ctx context.Context) ([]*domain.Order, error)
	TotalSalesInRange(ctx context.Context, r types.DateRange) (types.Money, error)
	CountOrdersInRange(ctx context.Context, r types.DateRange) (int, error)

	// Database operations
	Close() error
}

var _ Storage = (*SQLiteStorage)(nil)

// orderRow is the persisted order header
type orderRow struct {
	ID            string
	OrderNumber   string
	OrderDate     int64 // unix milliseconds
	CustomerID    string
	SalespersonID string
	TaxType       string
	Notes         string
	IsPrinted     bool
	Total         types.Money
	Discount      types.Money
	PaidAmount    types.Money
}

// itemRow is one persisted order line
type itemRow struct {
	ID            string
	OrderID       string
	LineNo        int
	ProductID     string
	WarehouseID   string
	Quantity      int
	UnitPrice     types.Money // snapshot of the product price at write time
	Specification string
}
