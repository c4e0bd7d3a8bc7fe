package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-state/internal/domains/orders/adapters/memory"
	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
)

func newService(t *testing.T) (*Service, *catalogmemory.Repository) {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	ctx := context.Background()
	for _, p := range []catalogdomain.Product{
		{ID: 1, Name: "Mug", Price: decimal.RequireFromString("12.50"), Stock: 5},
		{ID: 2, Name: "Shears", Price: decimal.RequireFromString("19.999"), Stock: 2},
	} {
		_, err := catalog.SaveProduct(ctx, p)
		require.NoError(t, err)
	}
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewService(memory.NewRepository(), catalog, WithClock(func() time.Time { return fixed })), catalog
}

func items(pairs ...int64) []domain.Item {
	out := make([]domain.Item, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Item{ProductID: pairs[i], Quantity: int(pairs[i+1])})
	}
	return out
}

func TestService_PlaceOrderPricesAndReserves(t *testing.T) {
	svc, catalog := newService(t)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, domain.PlaceOrderInput{Items: items(1, 2, 2, 2)}, "")
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, domain.StatusCreated, order.Status)
	assert.Equal(t, "64.998", order.Total.String())
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), order.CreatedAt)

	mug, err := catalog.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, mug.Stock)
	shears, err := catalog.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, shears.Stock)
}

func TestService_PlaceOrderOutOfStockLeavesStock(t *testing.T) {
	svc, catalog := newService(t)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, domain.PlaceOrderInput{Items: items(1, 1, 2, 3)}, "")
	require.ErrorIs(t, err, ErrOutOfStock)
	stockErr, ok := err.(*OutOfStockError)
	require.True(t, ok)
	assert.Equal(t, int64(2), stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)

	mug, err := catalog.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, mug.Stock)
}

func TestService_PlaceOrderMergesDuplicateItemsForStock(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderInput{Items: items(2, 1, 2, 2)}, "")
	require.ErrorIs(t, err, ErrOutOfStock)
}

func TestService_PlaceOrderValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, domain.PlaceOrderInput{}, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.PlaceOrder(ctx, domain.PlaceOrderInput{Items: items(1, 0)}, "")
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.PlaceOrder(ctx, domain.PlaceOrderInput{Items: items(42, 1)}, "")
	require.ErrorIs(t, err, ErrUnknownProduct)
}

func TestService_PlaceOrderIdempotent(t *testing.T) {
	svc, catalog := newService(t)
	ctx := context.Background()
	input := domain.PlaceOrderInput{Items: items(1, 2)}

	first, err := svc.PlaceOrder(ctx, input, "key-1")
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, input, "key-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	mug, err := catalog.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, mug.Stock)

	_, err = svc.PlaceOrder(ctx, domain.PlaceOrderInput{Items: items(1, 1)}, "key-1")
	require.ErrorIs(t, err, ErrIdempotencyConflict)

	list, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_ListOrdersNewestFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.PlaceOrder(ctx, domain.PlaceOrderInput{Items: items(1, 1)}, "")
		require.NoError(t, err)
	}
	list, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Greater(t, list[0].ID, list[1].ID)
	assert.Greater(t, list[1].ID, list[2].ID)

	got, err := svc.GetOrderByID(ctx, list[2].ID)
	require.NoError(t, err)
	assert.Equal(t, list[2].ID, got.ID)
}
