package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

const orderColumns = `id, order_number, order_date, customer_id, salesperson_id,
	total, discount, paid_amount, tax_type, notes, is_printed`

// Order operations

// CreateOrder writes the header and all lines in one transaction. Each line
// records the product's current price as its snapshot.
func (s *SQLiteStorage) CreateOrder(ctx context.Context, o *domain.Order) error {
	header, err := newOrderRow(o)
	if err != nil {
		return err
	}

	return withTx(ctx, s.db, func(q querier) error {
		query := `
			INSERT INTO orders (id, order_number, order_date, customer_id, salesperson_id,
			                    total, discount, paid_amount, tax_type, notes, is_printed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := q.ExecContext(ctx, query,
			header.ID, header.OrderNumber, header.OrderDate, header.CustomerID, header.SalespersonID,
			moneyValue(header.Total), moneyValue(header.Discount), moneyValue(header.PaidAmount),
			header.TaxType, header.Notes, header.IsPrinted)
		if err != nil {
			return classifyWriteError("failed to create order", err)
		}
		return s.insertItemsWithQuerier(ctx, q, header.ID, o.Items())
	})
}

// UpdateOrder rewrites the header and replaces all lines. Lines loaded from
// storage keep their original price snapshot. An order loaded with dropped
// lines is refused with ErrIncompleteOrder and nothing is written.
func (s *SQLiteStorage) UpdateOrder(ctx context.Context, o *domain.Order) error {
	if n := o.DroppedLines(); n > 0 {
		return fmt.Errorf("order %s: %w (%d lines)", o.ID(), ErrIncompleteOrder, n)
	}
	header, err := newOrderRow(o)
	if err != nil {
		return err
	}

	return withTx(ctx, s.db, func(q querier) error {
		query := `
			UPDATE orders
			SET customer_id = ?, salesperson_id = ?, total = ?, discount = ?, paid_amount = ?,
			    tax_type = ?, notes = ?, is_printed = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`
		res, err := q.ExecContext(ctx, query,
			header.CustomerID, header.SalespersonID,
			moneyValue(header.Total), moneyValue(header.Discount), moneyValue(header.PaidAmount),
			header.TaxType, header.Notes, header.IsPrinted, header.ID)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", header.ID); err != nil {
			return fmt.Errorf("failed to clear order items: %w", err)
		}
		return s.insertItemsWithQuerier(ctx, q, header.ID, o.Items())
	})
}

// DeleteOrder removes the order; its lines go with it
func (s *SQLiteStorage) DeleteOrder(ctx context.Context, id string) error {
	res, err := s.querier().ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := s.loadOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}
	return orders[0], nil
}

func (s *SQLiteStorage) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.loadOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC, id`)
}

func (s *SQLiteStorage) FindOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	return s.loadOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = ? ORDER BY order_date DESC, id`, customerID)
}

// FindOrdersByDateRange returns orders dated within r, bounds included
func (s *SQLiteStorage) FindOrdersByDateRange(ctx context.Context, r types.DateRange) ([]*domain.Order, error) {
	return s.loadOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_date BETWEEN ? AND ? ORDER BY order_date DESC, id`,
		r.Start().UnixMilli(), r.End().UnixMilli())
}

// FindUnpaidOrders returns orders whose paid amount is below the stored total
func (s *SQLiteStorage) FindUnpaidOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.loadOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE paid_amount < total ORDER BY order_date DESC, id`)
}

// TotalSalesInRange sums stored order totals dated within r
func (s *SQLiteStorage) TotalSalesInRange(ctx context.Context, r types.DateRange) (types.Money, error) {
	var sum decimal.Decimal
	err := s.querier().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM orders WHERE order_date BETWEEN ? AND ?`,
		r.Start().UnixMilli(), r.End().UnixMilli()).Scan(&sum)
	if err != nil {
		return types.Money{}, fmt.Errorf("failed to sum sales: %w", err)
	}
	return toMoney(sum), nil
}

// CountOrdersInRange counts stored order headers dated within r, the same
// rows TotalSalesInRange sums
func (s *SQLiteStorage) CountOrdersInRange(ctx context.Context, r types.DateRange) (int, error) {
	var n int
	err := s.querier().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE order_date BETWEEN ? AND ?`,
		r.Start().UnixMilli(), r.End().UnixMilli()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

func newOrderRow(o *domain.Order) (orderRow, error) {
	total, err := o.Total()
	if err != nil {
		return orderRow{}, err
	}
	return orderRow{
		ID:            o.ID(),
		OrderNumber:   o.Number().Value(),
		OrderDate:     o.Date().UnixMilli(),
		CustomerID:    o.Customer().ID(),
		SalespersonID: o.Salesperson().ID(),
		TaxType:       o.TaxType().String(),
		Notes:         o.Notes(),
		IsPrinted:     o.IsPrinted(),
		Total:         total,
		Discount:      o.Discount(),
		PaidAmount:    o.PaidAmount(),
	}, nil
}

func (s *SQLiteStorage) insertItemsWithQuerier(ctx context.Context, q querier, orderID string, items []*domain.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, line_no, product_id, warehouse_id, quantity, unit_price, specification)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, item := range items {
		price, ok := item.PriceSnapshot()
		if !ok {
			price = item.Product().Price()
		}
		_, err := q.ExecContext(ctx, query,
			uuid.NewString(), orderID, i+1, item.Product().ID(), item.Warehouse().ID(),
			item.Quantity(), moneyValue(price), item.Specification())
		if err != nil {
			return fmt.Errorf("failed to insert order item %d: %w", i+1, err)
		}
	}
	return nil
}

// loadOrders reads header rows, then rebuilds each aggregate. Rows are fully
// drained before any follow-up query since the pool holds one connection.
func (s *SQLiteStorage) loadOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	headers, err := s.queryOrderRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	refs := newRefCache(s)
	orders := make([]*domain.Order, 0, len(headers))
	for _, h := range headers {
		o, err := s.rebuildOrder(ctx, refs, h)
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("skipping order with missing reference",
				zap.String("order_id", h.ID), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *SQLiteStorage) queryOrderRows(ctx context.Context, query string, args ...interface{}) ([]orderRow, error) {
	rows, err := s.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []orderRow
	for rows.Next() {
		var h orderRow
		var total, discount, paid decimal.Decimal
		if err := rows.Scan(&h.ID, &h.OrderNumber, &h.OrderDate, &h.CustomerID, &h.SalespersonID,
			&total, &discount, &paid, &h.TaxType, &h.Notes, &h.IsPrinted); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		h.Total = toMoney(total)
		h.Discount = toMoney(discount)
		h.PaidAmount = toMoney(paid)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) queryItemRows(ctx context.Context, orderID string) ([]itemRow, error) {
	query := `
		SELECT id, order_id, line_no, product_id, warehouse_id, quantity, unit_price, specification
		FROM order_items
		WHERE order_id = ?
		ORDER BY line_no
	`
	rows, err := s.querier().QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []itemRow
	for rows.Next() {
		var r itemRow
		var price decimal.Decimal
		if err := rows.Scan(&r.ID, &r.OrderID, &r.LineNo, &r.ProductID, &r.WarehouseID,
			&r.Quantity, &price, &r.Specification); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		r.UnitPrice = toMoney(price)
		out = append(out, r)
	}
	return out, rows.Err()
}

// rebuildOrder reconstructs one aggregate. A missing customer or salesperson
// returns ErrNotFound; a line with a missing product or warehouse is dropped.
func (s *SQLiteStorage) rebuildOrder(ctx context.Context, refs *refCache, h orderRow) (*domain.Order, error) {
	customer, err := refs.customer(ctx, h.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", h.CustomerID, err)
	}
	salesperson, err := refs.salesperson(ctx, h.SalespersonID)
	if err != nil {
		return nil, fmt.Errorf("salesperson %s: %w", h.SalespersonID, err)
	}

	number, err := types.NewOrderNumber(h.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", h.ID, err)
	}
	o, err := domain.NewOrder(number, time.UnixMilli(h.OrderDate), customer, salesperson)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", h.ID, err)
	}
	taxType, err := types.ParseTaxType(h.TaxType)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", h.ID, err)
	}
	if err := o.SetTaxType(taxType); err != nil {
		return nil, err
	}
	if err := o.SetDiscount(h.Discount); err != nil {
		return nil, fmt.Errorf("order %s: %w", h.ID, err)
	}
	if err := o.SetPaidAmount(h.PaidAmount); err != nil {
		return nil, fmt.Errorf("order %s: %w", h.ID, err)
	}
	o.SetNotes(h.Notes)
	if h.IsPrinted {
		o.MarkPrinted()
	}

	lines, err := s.queryItemRows(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	dropped := 0
	for _, line := range lines {
		item, err := refs.item(ctx, line)
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("dropping order line with missing reference",
				zap.String("order_id", h.ID), zap.Int("line_no", line.LineNo), zap.Error(err))
			dropped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("order %s line %d: %w", h.ID, line.LineNo, err)
		}
		if err := o.AddItem(item); err != nil {
			return nil, err
		}
	}
	o.RecordDroppedLines(dropped)
	return o, nil
}

// refCacheSize bounds each entity cache built for one load call
const refCacheSize = 256

// refCache memoizes reference lookups within one load call
type refCache struct {
	s            *SQLiteStorage
	customers    *lru.Cache[string, *domain.Customer]
	salespersons *lru.Cache[string, *domain.Salesperson]
	products     *lru.Cache[string, *domain.Product]
	warehouses   *lru.Cache[string, *domain.Warehouse]
}

func newRefCache(s *SQLiteStorage) *refCache {
	return &refCache{
		s:            s,
		customers:    newLRU[*domain.Customer](),
		salespersons: newLRU[*domain.Salesperson](),
		products:     newLRU[*domain.Product](),
		warehouses:   newLRU[*domain.Warehouse](),
	}
}

func newLRU[V any]() *lru.Cache[string, V] {
	cache, err := lru.New[string, V](refCacheSize)
	if err != nil {
		// Only fails for a non-positive size
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return cache
}

// cached returns the entry for id, loading and remembering it on a miss
func cached[V any](ctx context.Context, cache *lru.Cache[string, V], id string, load func(context.Context, string) (V, error)) (V, error) {
	if v, ok := cache.Get(id); ok {
		return v, nil
	}
	v, err := load(ctx, id)
	if err != nil {
		return v, err
	}
	cache.Add(id, v)
	return v, nil
}

func (r *refCache) customer(ctx context.Context, id string) (*domain.Customer, error) {
	return cached(ctx, r.customers, id, r.s.GetCustomer)
}

func (r *refCache) salesperson(ctx context.Context, id string) (*domain.Salesperson, error) {
	return cached(ctx, r.salespersons, id, r.s.GetSalesperson)
}

func (r *refCache) item(ctx context.Context, line itemRow) (*domain.OrderItem, error) {
	product, err := cached(ctx, r.products, line.ProductID, r.s.GetProduct)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", line.ProductID, err)
	}
	warehouse, err := cached(ctx, r.warehouses, line.WarehouseID, r.s.GetWarehouse)
	if err != nil {
		return nil, fmt.Errorf("warehouse %s: %w", line.WarehouseID, err)
	}

	item, err := domain.NewOrderItem(product, line.Quantity, warehouse, line.Specification)
	if err != nil {
		return nil, err
	}
	item.RecordPriceSnapshot(line.UnitPrice)
	return item, nil
}
