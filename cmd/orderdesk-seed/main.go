// Command orderdesk-seed loads the demo customers, products, warehouses and
// salespersons. Entries that already exist are left untouched.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dshills/orderdesk/internal/config"
	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/internal/logging"
	"github.com/dshills/orderdesk/internal/storage"
	"github.com/dshills/orderdesk/pkg/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "orderdesk-seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.EnsureDBDir(); err != nil {
		return err
	}
	store, err := storage.NewSQLiteStorage(cfg.DBPath, logger.Named("storage"))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	res, err := seed(context.Background(), store, logger)
	if err != nil {
		return err
	}
	logger.Info("seed complete",
		zap.String("db_path", cfg.DBPath),
		zap.Int("created", res.created),
		zap.Int("skipped", res.skipped))
	return nil
}

type seedResult struct {
	created int
	skipped int
}

// record counts err as created, skipped (already present) or fatal
func (r *seedResult) record(logger *zap.Logger, kind, id string, err error) error {
	switch {
	case err == nil:
		r.created++
		logger.Debug("seeded", zap.String("kind", kind), zap.String("id", id))
		return nil
	case errors.Is(err, storage.ErrAlreadyExists):
		r.skipped++
		logger.Debug("already present", zap.String("kind", kind), zap.String("id", id))
		return nil
	default:
		return fmt.Errorf("seed %s %s: %w", kind, id, err)
	}
}

func seed(ctx context.Context, store storage.Storage, logger *zap.Logger) (seedResult, error) {
	var res seedResult

	for _, p := range []domain.CustomerParams{
		{ID: "C1", Code: "C001", Name: "台北貿易行"},
		{ID: "C2", Code: "C002", Name: "台中鑫豐企業"},
		{ID: "C3", Code: "C003", Name: "高雄電工社"},
	} {
		c, err := domain.NewCustomer(p)
		if err != nil {
			return res, err
		}
		if err := res.record(logger, "customer", p.ID, store.CreateCustomer(ctx, c)); err != nil {
			return res, err
		}
	}

	for _, p := range []domain.ProductParams{
		{ID: "P1", Name: "柴油", Unit: "公升", Price: types.NewMoney(32.5)},
		{ID: "P2", Name: "齒輪油", Unit: "瓶", Price: types.NewMoney(180)},
		{ID: "P3", Name: "引擎潤滑油", Unit: "桶", Price: types.NewMoney(1500)},
	} {
		prod, err := domain.NewProduct(p)
		if err != nil {
			return res, err
		}
		if err := res.record(logger, "product", p.ID, store.CreateProduct(ctx, prod)); err != nil {
			return res, err
		}
	}

	for _, p := range []domain.WarehouseParams{
		{ID: "W1", Name: "一號倉", Location: "一號倉", Active: true},
		{ID: "W2", Name: "備品倉", Location: "備品倉", Active: true},
		{ID: "W3", Name: "油品區", Location: "油品區", Active: true},
	} {
		w, err := domain.NewWarehouse(p)
		if err != nil {
			return res, err
		}
		if err := res.record(logger, "warehouse", p.ID, store.CreateWarehouse(ctx, w)); err != nil {
			return res, err
		}
	}

	for _, p := range []domain.SalespersonParams{
		{ID: "S1", Code: "S01", Name: "王小明", Active: true},
		{ID: "S2", Code: "S02", Name: "陳美華", Active: true},
	} {
		sp, err := domain.NewSalesperson(p)
		if err != nil {
			return res, err
		}
		if err := res.record(logger, "salesperson", p.ID, store.CreateSalesperson(ctx, sp)); err != nil {
			return res, err
		}
	}

	return res, nil
}
