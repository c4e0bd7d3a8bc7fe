package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderInput_Validate(t *testing.T) {
	cases := []struct {
		name  string
		items []Item
		want  error
	}{
		{"empty", nil, ErrNoItems},
		{"zero product", []Item{{ProductID: 0, Quantity: 1}}, ErrInvalidProductID},
		{"zero quantity", []Item{{ProductID: 1, Quantity: 0}}, ErrInvalidQuantity},
		{"negative quantity", []Item{{ProductID: 1, Quantity: -3}}, ErrInvalidQuantity},
		{"valid", []Item{{ProductID: 1, Quantity: 2}, {ProductID: 1, Quantity: 1}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := PlaceOrderInput{Items: tc.items}.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewOrder(t *testing.T) {
	local := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	items := []Item{{ProductID: 4, Quantity: 2}}
	order, err := NewOrder(items, decimal.RequireFromString("39.998"), local)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, order.Status)
	assert.Equal(t, time.UTC, order.CreatedAt.Location())
	assert.True(t, order.CreatedAt.Equal(local))
	assert.Equal(t, 2, order.ItemCount())

	items[0].Quantity = 9
	assert.Equal(t, 2, order.Items[0].Quantity)

	_, err = NewOrder(items, decimal.NewFromInt(-1), local)
	assert.ErrorIs(t, err, ErrNegativeTotal)
	_, err = NewOrder(nil, decimal.Zero, local)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestOrder_UpdateStatus(t *testing.T) {
	order := &Order{}
	require.NoError(t, order.UpdateStatus(""))
	assert.Equal(t, StatusCreated, order.Status)
	require.NoError(t, order.UpdateStatus(StatusShipped))
	assert.ErrorIs(t, order.UpdateStatus("lost"), ErrInvalidStatus)
	assert.Equal(t, StatusShipped, order.Status)
}

func TestOrder_CloneIsDeep(t *testing.T) {
	order := Order{ID: 1, Items: []Item{{ProductID: 1, Quantity: 1}}}
	clone := order.Clone()
	clone.Items[0].Quantity = 5
	assert.Equal(t, 1, order.Items[0].Quantity)
}
