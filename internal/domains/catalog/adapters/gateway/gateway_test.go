package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := storefront.NewClient(server.URL, storefront.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return New(client)
}

func TestGateway_ListProductsMapsFilterAndBody(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("categoryId"))
		assert.False(t, r.URL.Query().Has("searchTerm"))
		_, _ = io.WriteString(w, `[{"id":3,"name":"Lamp","price":"19.99","stock":2,"categoryId":4,"recommended":true}]`)
	})

	products, err := gw.ListProducts(context.Background(), domain.ByCategory(4))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Name)
	assert.Equal(t, "19.99", products[0].Price.StringFixed(2))
	assert.True(t, products[0].Recommended)
}

func TestGateway_GetProductAbsent(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	product, err := gw.GetProduct(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestGateway_ListCategories(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"mainCategory":"Home","subCategoryName":"Kitchen","description":"pots"}]`)
	})
	categories, err := gw.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: 1, MainCategory: "Home", SubCategoryName: "Kitchen", Description: "pots"}}, categories)
}

func TestGateway_NotConfigured(t *testing.T) {
	var gw *Gateway
	_, err := gw.ListCategories(context.Background())
	require.Error(t, err)
}
