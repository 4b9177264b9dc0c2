package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

const customerColumns = `id, code, name, address, phone, credit_limit, balance`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var p domain.CustomerParams
	var creditLimit, balance decimal.Decimal
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Address, &p.Phone, &creditLimit, &balance); err != nil {
		return nil, err
	}
	p.CreditLimit = toMoney(creditLimit)
	p.Balance = toMoney(balance)
	return domain.NewCustomer(p)
}

func (s *SQLiteStorage) queryCustomers(ctx context.Context, q querier, query string, args ...interface{}) ([]*domain.Customer, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *SQLiteStorage) getCustomerWithQuerier(ctx context.Context, q querier, where string, arg interface{}) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE ` + where
	c, err := scanCustomer(q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

func (s *SQLiteStorage) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (id, code, name, address, phone, credit_limit, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.querier().ExecContext(ctx, query,
		c.ID(), c.Code(), c.Name(), c.Address(), c.Phone(),
		moneyValue(c.CreditLimit()), moneyValue(c.Balance()))
	return classifyWriteError("failed to create customer", err)
}

func (s *SQLiteStorage) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.getCustomerWithQuerier(ctx, s.querier(), "id = ?", id)
}

func (s *SQLiteStorage) FindCustomerByCode(ctx context.Context, code string) (*domain.Customer, error) {
	return s.getCustomerWithQuerier(ctx, s.querier(), "code = ?", code)
}

func (s *SQLiteStorage) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.queryCustomers(ctx, s.querier(), `SELECT `+customerColumns+` FROM customers ORDER BY code`)
}

func (s *SQLiteStorage) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	query := `
		UPDATE customers
		SET code = ?, name = ?, address = ?, phone = ?, credit_limit = ?, balance = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	res, err := s.querier().ExecContext(ctx, query,
		c.Code(), c.Name(), c.Address(), c.Phone(),
		moneyValue(c.CreditLimit()), moneyValue(c.Balance()), c.ID())
	if err != nil {
		return classifyWriteError("failed to update customer", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.querier().ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return requireAffected(res)
}

// FindCustomersByName matches name as a substring
func (s *SQLiteStorage) FindCustomersByName(ctx context.Context, name string) ([]*domain.Customer, error) {
	return s.queryCustomers(ctx, s.querier(),
		`SELECT `+customerColumns+` FROM customers WHERE name LIKE ? ORDER BY code`, likePattern(name))
}

func (s *SQLiteStorage) FindCustomersByBalanceAbove(ctx context.Context, amount types.Money) ([]*domain.Customer, error) {
	return s.queryCustomers(ctx, s.querier(),
		`SELECT `+customerColumns+` FROM customers WHERE balance > ? ORDER BY balance DESC`, amount.Amount())
}

// FindCustomersWithOverdueOrders returns customers holding an unpaid order
// dated before dueBefore
func (s *SQLiteStorage) FindCustomersWithOverdueOrders(ctx context.Context, dueBefore time.Time) ([]*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + ` FROM customers
		WHERE id IN (
			SELECT customer_id FROM orders
			WHERE paid_amount < total AND order_date < ?
		)
		ORDER BY code
	`
	return s.queryCustomers(ctx, s.querier(), query, dueBefore.UnixMilli())
}

// AdjustCustomerBalance adds delta to the stored balance in one statement
func (s *SQLiteStorage) AdjustCustomerBalance(ctx context.Context, id string, delta types.Money) error {
	res, err := s.querier().ExecContext(ctx,
		`UPDATE customers SET balance = ROUND(balance + ?, 2), updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		delta.Amount(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust customer balance: %w", err)
	}
	return requireAffected(res)
}
