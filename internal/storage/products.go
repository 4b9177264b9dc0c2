package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

const productColumns = `id, name, price, unit, description`

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.ProductParams
	var price decimal.Decimal
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Unit, &p.Description); err != nil {
		return nil, err
	}
	p.Price = toMoney(price)
	return domain.NewProduct(p)
}

func (s *SQLiteStorage) queryProducts(ctx context.Context, q querier, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *SQLiteStorage) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, price, unit, description)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.querier().ExecContext(ctx, query,
		p.ID(), p.Name(), moneyValue(p.Price()), p.Unit(), p.Description())
	return classifyWriteError("failed to create product", err)
}

func (s *SQLiteStorage) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	p, err := scanProduct(s.querier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (s *SQLiteStorage) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.queryProducts(ctx, s.querier(), `SELECT `+productColumns+` FROM products ORDER BY name`)
}

func (s *SQLiteStorage) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = ?, price = ?, unit = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	res, err := s.querier().ExecContext(ctx, query,
		p.Name(), moneyValue(p.Price()), p.Unit(), p.Description(), p.ID())
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.querier().ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) FindProductsByName(ctx context.Context, name string) ([]*domain.Product, error) {
	return s.queryProducts(ctx, s.querier(),
		`SELECT `+productColumns+` FROM products WHERE name LIKE ? ORDER BY name`, likePattern(name))
}

// FindProductsByPriceRange returns products priced within [min, max]
func (s *SQLiteStorage) FindProductsByPriceRange(ctx context.Context, min, max types.Money) ([]*domain.Product, error) {
	return s.queryProducts(ctx, s.querier(),
		`SELECT `+productColumns+` FROM products WHERE price BETWEEN ? AND ? ORDER BY price`,
		min.Amount(), max.Amount())
}

func (s *SQLiteStorage) FindProductsByUnit(ctx context.Context, unit string) ([]*domain.Product, error) {
	return s.queryProducts(ctx, s.querier(),
		`SELECT `+productColumns+` FROM products WHERE unit = ? ORDER BY name`, unit)
}
