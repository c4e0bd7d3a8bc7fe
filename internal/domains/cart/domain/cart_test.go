package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

func product(id int64, price string, stock int) catalog.Product {
	return catalog.Product{ID: id, Name: "item", Price: decimal.RequireFromString(price), Stock: stock}
}

func TestCart_AddWithinStock(t *testing.T) {
	for q := 1; q <= 4; q++ {
		var c Cart
		require.NoError(t, c.Add(product(1, "1", 4), q))
		require.Len(t, c.Lines(), 1)
		assert.Equal(t, q, c.Lines()[0].Quantity)
	}
}

func TestCart_AddAboveStockCreatesNoLine(t *testing.T) {
	var c Cart
	err := c.Add(product(1, "1", 3), 4)
	stockErr, ok := IsStockExceeded(err)
	require.True(t, ok)
	assert.Equal(t, 3, stockErr.Stock)
	assert.Equal(t, 0, stockErr.InCart)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Empty(t, c.Lines())
	assert.ErrorIs(t, err, ErrStockExceeded)
	assert.ErrorIs(t, err, apierrors.ErrValidation)
}

func TestCart_RepeatedAddSaturates(t *testing.T) {
	var c Cart
	p := product(1, "2.50", 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Add(p, 1))
	}
	err := c.Add(p, 1)
	stockErr, ok := IsStockExceeded(err)
	require.True(t, ok)
	assert.Equal(t, 3, stockErr.InCart)
	assert.Equal(t, 3, c.Lines()[0].Quantity)
	assert.Contains(t, err.Error(), "3 already in cart")
}

func TestCart_AddRejectsNonPositiveQuantity(t *testing.T) {
	var c Cart
	assert.ErrorIs(t, c.Add(product(1, "1", 5), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(product(1, "1", 5), -2), apierrors.ErrValidation)
	assert.Empty(t, c.Lines())
}

func TestCart_OneLinePerProduct(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(product(1, "1", 5), 1))
	require.NoError(t, c.Add(product(2, "1", 5), 1))
	require.NoError(t, c.Add(product(1, "1", 5), 2))
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].Product.ID)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCart_SetQuantityRemovesOnZeroOrNegative(t *testing.T) {
	for _, q := range []int{0, -1} {
		var c Cart
		require.NoError(t, c.Add(product(1, "1", 5), 2))
		changed, err := c.SetQuantity(1, q)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Empty(t, c.Lines())
	}
}

func TestCart_SetQuantityClampsAboveStock(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(product(1, "1", 5), 2))
	changed, err := c.SetQuantity(1, 9)
	assert.True(t, changed)
	stockErr, ok := IsStockExceeded(err)
	require.True(t, ok)
	assert.Equal(t, 9, stockErr.Requested)
	assert.Equal(t, 2, stockErr.InCart)
	assert.Equal(t, 5, c.Lines()[0].Quantity)
}

func TestCart_SetQuantityWithinStockAndUnknown(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(product(1, "1", 5), 2))
	changed, err := c.SetQuantity(1, 4)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 4, c.Lines()[0].Quantity)

	changed, err = c.SetQuantity(99, 1)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCart_TotalsRoundHalfUp(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(product(1, "19.999", 5), 2))
	assert.Equal(t, "39.998", c.Total().String())
	assert.Equal(t, "40.00", FormatPrice(c.Total()))

	require.NoError(t, c.Add(product(2, "0.005", 5), 1))
	assert.Equal(t, 3, c.ItemCount())
	assert.Equal(t, "40.00", FormatPrice(c.Total()))

	var d Cart
	require.NoError(t, d.Add(product(3, "1.005", 1), 1))
	assert.Equal(t, "1.01", FormatPrice(d.Total()))
	assert.Equal(t, "0.00", FormatPrice(decimal.Zero))
}

func TestCart_ClearAndLinesCopy(t *testing.T) {
	var c Cart
	assert.False(t, c.Clear())
	require.NoError(t, c.Add(product(1, "1", 5), 1))
	lines := c.Lines()
	lines[0].Quantity = 42
	assert.Equal(t, 1, c.Lines()[0].Quantity)
	assert.True(t, c.Clear())
	assert.Zero(t, c.ItemCount())
}
