package application

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-state/internal/domains/cart/domain"
	catalog "github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	orders "github.com/Apurer/storefront-state/internal/domains/orders/domain"
)

func lamp(stock int) catalog.Product {
	return catalog.Product{ID: 3, Name: "Desk Lamp", Price: decimal.RequireFromString("39.99"), Stock: stock}
}

func TestStore_AddOneSaturatesAtStock(t *testing.T) {
	store := NewStore()
	p := lamp(2)
	require.NoError(t, store.AddOne(p))
	require.NoError(t, store.AddOne(p))

	err := store.AddOne(p)
	stockErr, ok := domain.IsStockExceeded(err)
	require.True(t, ok)
	assert.Equal(t, "Desk Lamp", stockErr.ProductName)
	assert.Equal(t, 2, stockErr.Stock)
	assert.Equal(t, 2, store.ItemCount())
}

func TestStore_UpdateQuantity(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(lamp(4), 1))

	require.NoError(t, store.UpdateQuantity(3, 3))
	assert.Equal(t, 3, store.Lines()[0].Quantity)

	err := store.UpdateQuantity(3, 10)
	_, ok := domain.IsStockExceeded(err)
	require.True(t, ok)
	assert.Equal(t, 4, store.Lines()[0].Quantity)

	require.NoError(t, store.UpdateQuantity(3, -1))
	assert.Empty(t, store.Lines())

	require.NoError(t, store.UpdateQuantity(3, 2))
	assert.Empty(t, store.Lines())
}

func TestStore_TotalsAndPayload(t *testing.T) {
	store := NewStore()
	shears := catalog.Product{ID: 4, Name: "Shears", Price: decimal.RequireFromString("19.999"), Stock: 5}
	require.NoError(t, store.AddItem(shears, 2))
	assert.Equal(t, "40.00", store.TotalPriceText())
	assert.True(t, store.TotalPrice().Equal(decimal.RequireFromString("39.998")))

	require.NoError(t, store.AddItem(lamp(3), 1))
	assert.Equal(t, orders.PlaceOrderInput{Items: []orders.Item{{ProductID: 4, Quantity: 2}, {ProductID: 3, Quantity: 1}}}, store.OrderPayload())
	require.NoError(t, store.OrderPayload().Validate())
	assert.Equal(t, 3, store.ItemCount())

	store.RemoveItem(4)
	store.RemoveItem(404)
	assert.Equal(t, "39.99", store.TotalPriceText())

	store.Clear()
	assert.Equal(t, "0.00", store.TotalPriceText())
	assert.Empty(t, store.OrderPayload().Items)
}

func TestStore_SubscribersSeeOnlyChanges(t *testing.T) {
	store := NewStore()
	var seen []Snapshot
	unsubscribe := store.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	require.NoError(t, store.AddItem(lamp(1), 1))
	require.Error(t, store.AddItem(lamp(1), 1))
	store.RemoveItem(99)
	store.Clear()
	store.Clear()

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].ItemCount)
	assert.Equal(t, "39.99", seen[0].TotalText())
	assert.Equal(t, 0, seen[1].ItemCount)
	assert.Greater(t, seen[1].Version, seen[0].Version)

	unsubscribe()
	require.NoError(t, store.AddItem(lamp(1), 1))
	assert.Len(t, seen, 2)
}

func TestStore_ConcurrentAddsNeverExceedStock(t *testing.T) {
	store := NewStore()
	p := lamp(25)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AddOne(p)
		}()
	}
	wg.Wait()
	assert.Equal(t, 25, store.ItemCount())
	assert.Equal(t, 25, store.Snapshot().ItemCount)
}
