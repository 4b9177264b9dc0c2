package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/internal/storage"
)

type stubReader struct {
	customer *domain.Customer
	err      error
}

func (s stubReader) GetCustomer(context.Context, string) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s stubReader) GetSalesperson(context.Context, string) (*domain.Salesperson, error) {
	return nil, storage.ErrNotFound
}

func (s stubReader) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, s.err
}

func (s stubReader) GetWarehouse(context.Context, string) (*domain.Warehouse, error) {
	return nil, storage.ErrNotFound
}

func TestStorageLookups(t *testing.T) {
	ctx := context.Background()

	t.Run("not found becomes absent", func(t *testing.T) {
		l := StorageLookups(stubReader{err: storage.ErrNotFound})
		c, err := l.Customer(ctx, "x")
		assert.NoError(t, err)
		assert.Nil(t, c)

		sp, err := l.Salesperson(ctx, "x")
		assert.NoError(t, err)
		assert.Nil(t, sp)
	})

	t.Run("found passes through", func(t *testing.T) {
		want, err := domain.NewCustomer(domain.CustomerParams{ID: "C1", Code: "C001", Name: "n"})
		require.NoError(t, err)
		c, err := StorageLookups(stubReader{customer: want}).Customer(ctx, "C1")
		require.NoError(t, err)
		assert.Same(t, want, c)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := StorageLookups(stubReader{err: boom}).Product(ctx, "P1")
		assert.ErrorIs(t, err, boom)
	})
}
