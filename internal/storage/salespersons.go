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

const salespersonColumns = `id, code, name, commission, is_active, total_sales`

func scanSalesperson(row rowScanner) (*domain.Salesperson, error) {
	var p domain.SalespersonParams
	var totalSales decimal.Decimal
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Commission, &p.Active, &totalSales); err != nil {
		return nil, err
	}
	p.TotalSales = toMoney(totalSales)
	return domain.NewSalesperson(p)
}

func (s *SQLiteStorage) querySalespersons(ctx context.Context, q querier, query string, args ...interface{}) ([]*domain.Salesperson, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salespersons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Salesperson
	for rows.Next() {
		sp, err := scanSalesperson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salesperson: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) getSalespersonWithQuerier(ctx context.Context, q querier, where string, arg interface{}) (*domain.Salesperson, error) {
	query := `SELECT ` + salespersonColumns + ` FROM salespersons WHERE ` + where
	sp, err := scanSalesperson(q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salesperson: %w", err)
	}
	return sp, nil
}

func (s *SQLiteStorage) CreateSalesperson(ctx context.Context, sp *domain.Salesperson) error {
	query := `
		INSERT INTO salespersons (id, code, name, commission, is_active, total_sales)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.querier().ExecContext(ctx, query,
		sp.ID(), sp.Code(), sp.Name(), sp.Commission(), sp.IsActive(), moneyValue(sp.TotalSales()))
	return classifyWriteError("failed to create salesperson", err)
}

func (s *SQLiteStorage) GetSalesperson(ctx context.Context, id string) (*domain.Salesperson, error) {
	return s.getSalespersonWithQuerier(ctx, s.querier(), "id = ?", id)
}

func (s *SQLiteStorage) FindSalespersonByCode(ctx context.Context, code string) (*domain.Salesperson, error) {
	return s.getSalespersonWithQuerier(ctx, s.querier(), "code = ?", code)
}

func (s *SQLiteStorage) ListSalespersons(ctx context.Context) ([]*domain.Salesperson, error) {
	return s.querySalespersons(ctx, s.querier(), `SELECT `+salespersonColumns+` FROM salespersons ORDER BY code`)
}

func (s *SQLiteStorage) UpdateSalesperson(ctx context.Context, sp *domain.Salesperson) error {
	query := `
		UPDATE salespersons
		SET code = ?, name = ?, commission = ?, is_active = ?, total_sales = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	res, err := s.querier().ExecContext(ctx, query,
		sp.Code(), sp.Name(), sp.Commission(), sp.IsActive(), moneyValue(sp.TotalSales()), sp.ID())
	if err != nil {
		return classifyWriteError("failed to update salesperson", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) DeleteSalesperson(ctx context.Context, id string) error {
	res, err := s.querier().ExecContext(ctx, "DELETE FROM salespersons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete salesperson: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) FindSalespersonsByName(ctx context.Context, name string) ([]*domain.Salesperson, error) {
	return s.querySalespersons(ctx, s.querier(),
		`SELECT `+salespersonColumns+` FROM salespersons WHERE name LIKE ? ORDER BY code`, likePattern(name))
}

func (s *SQLiteStorage) ListActiveSalespersons(ctx context.Context) ([]*domain.Salesperson, error) {
	return s.querySalespersons(ctx, s.querier(),
		`SELECT `+salespersonColumns+` FROM salespersons WHERE is_active = 1 ORDER BY code`)
}

func (s *SQLiteStorage) FindSalespersonsBySalesAbove(ctx context.Context, amount types.Money) ([]*domain.Salesperson, error) {
	return s.querySalespersons(ctx, s.querier(),
		`SELECT `+salespersonColumns+` FROM salespersons WHERE total_sales > ? ORDER BY total_sales DESC`,
		amount.Amount())
}

// AdjustSalespersonSales adds delta to the stored sales total in one statement
func (s *SQLiteStorage) AdjustSalespersonSales(ctx context.Context, id string, delta types.Money) error {
	res, err := s.querier().ExecContext(ctx,
		`UPDATE salespersons SET total_sales = ROUND(total_sales + ?, 2), updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		delta.Amount(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust salesperson sales: %w", err)
	}
	return requireAffected(res)
}
