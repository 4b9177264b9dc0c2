package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dshills/orderdesk/internal/domain"
)

const warehouseColumns = `id, name, location, is_active`

func scanWarehouse(row rowScanner) (*domain.Warehouse, error) {
	var p domain.WarehouseParams
	if err := row.Scan(&p.ID, &p.Name, &p.Location, &p.Active); err != nil {
		return nil, err
	}
	return domain.NewWarehouse(p)
}

func (s *SQLiteStorage) queryWarehouses(ctx context.Context, q querier, query string, args ...interface{}) ([]*domain.Warehouse, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var warehouses []*domain.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (s *SQLiteStorage) CreateWarehouse(ctx context.Context, w *domain.Warehouse) error {
	_, err := s.querier().ExecContext(ctx,
		`INSERT INTO warehouses (id, name, location, is_active) VALUES (?, ?, ?, ?)`,
		w.ID(), w.Name(), w.Location(), w.IsActive())
	return classifyWriteError("failed to create warehouse", err)
}

func (s *SQLiteStorage) GetWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = ?`
	w, err := scanWarehouse(s.querier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	return w, nil
}

func (s *SQLiteStorage) ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error) {
	return s.queryWarehouses(ctx, s.querier(), `SELECT `+warehouseColumns+` FROM warehouses ORDER BY id`)
}

func (s *SQLiteStorage) UpdateWarehouse(ctx context.Context, w *domain.Warehouse) error {
	res, err := s.querier().ExecContext(ctx,
		`UPDATE warehouses SET name = ?, location = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		w.Name(), w.Location(), w.IsActive(), w.ID())
	if err != nil {
		return fmt.Errorf("failed to update warehouse: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) DeleteWarehouse(ctx context.Context, id string) error {
	res, err := s.querier().ExecContext(ctx, "DELETE FROM warehouses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete warehouse: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) FindWarehousesByName(ctx context.Context, name string) ([]*domain.Warehouse, error) {
	return s.queryWarehouses(ctx, s.querier(),
		`SELECT `+warehouseColumns+` FROM warehouses WHERE name LIKE ? ORDER BY id`, likePattern(name))
}

func (s *SQLiteStorage) FindWarehousesByLocation(ctx context.Context, location string) ([]*domain.Warehouse, error) {
	return s.queryWarehouses(ctx, s.querier(),
		`SELECT `+warehouseColumns+` FROM warehouses WHERE location LIKE ? ORDER BY id`, likePattern(location))
}

func (s *SQLiteStorage) ListActiveWarehouses(ctx context.Context) ([]*domain.Warehouse, error) {
	return s.queryWarehouses(ctx, s.querier(),
		`SELECT `+warehouseColumns+` FROM warehouses WHERE is_active = 1 ORDER BY id`)
}
