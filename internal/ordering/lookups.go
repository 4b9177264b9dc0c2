package ordering

import (
	"context"
	"errors"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/internal/storage"
)

// Lookups fetch referenced entities by id. Each returns (nil, nil) when the
// entity does not exist; any non-nil error aborts the use case.
type Lookups struct {
	Customer    func(ctx context.Context, id string) (*domain.Customer, error)
	Salesperson func(ctx context.Context, id string) (*domain.Salesperson, error)
	Product     func(ctx context.Context, id string) (*domain.Product, error)
	Warehouse   func(ctx context.Context, id string) (*domain.Warehouse, error)
}

func (l Lookups) validate() error {
	if l.Customer == nil || l.Salesperson == nil || l.Product == nil || l.Warehouse == nil {
		return errors.New("ordering: all four lookups are required")
	}
	return nil
}

// ReferenceReader is the subset of storage.Storage that StorageLookups needs
type ReferenceReader interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	GetSalesperson(ctx context.Context, id string) (*domain.Salesperson, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetWarehouse(ctx context.Context, id string) (*domain.Warehouse, error)
}

// StorageLookups adapts a storage reader, mapping storage.ErrNotFound to an
// absent result.
func StorageLookups(r ReferenceReader) Lookups {
	return Lookups{
		Customer:    absentOnNotFound(r.GetCustomer),
		Salesperson: absentOnNotFound(r.GetSalesperson),
		Product:     absentOnNotFound(r.GetProduct),
		Warehouse:   absentOnNotFound(r.GetWarehouse),
	}
}

func absentOnNotFound[T any](get func(context.Context, string) (*T, error)) func(context.Context, string) (*T, error) {
	return func(ctx context.Context, id string) (*T, error) {
		v, err := get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return v, err
	}
}
