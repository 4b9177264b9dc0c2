package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dshills/orderdesk/internal/storage"
)

func TestSeed_Idempotent(t *testing.T) {
	store, err := storage.NewSQLiteStorage(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	first, err := seed(ctx, store, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 11, first.created)
	assert.Equal(t, 0, first.skipped)

	second, err := seed(ctx, store, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, second.created)
	assert.Equal(t, 11, second.skipped)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	p1, err := store.GetProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 32.5, p1.Price().Amount())
	assert.Equal(t, "公升", p1.Unit())

	active, err := store.ListActiveSalespersons(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
