package storefrontserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	cartapp "github.com/Apurer/storefront-state/internal/domains/cart/application"
	cataloggateway "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/gateway"
	catalogmemory "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-state/internal/domains/catalog/application"
	"github.com/Apurer/storefront-state/internal/domains/catalog/seed"
	ordersgateway "github.com/Apurer/storefront-state/internal/domains/orders/adapters/gateway"
	ordersmemory "github.com/Apurer/storefront-state/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/storefront-state/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/storefront-state/internal/domains/orders/domain"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
	"github.com/Apurer/storefront-state/internal/shared/loadstate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	fixture, err := seed.Default()
	require.NoError(t, err)
	require.NoError(t, fixture.Apply(context.Background(), catalog))

	service := ordersapp.NewService(ordersmemory.NewRepository(), catalog)
	return NewRouter(ApiHandleFunctions{
		CatalogAPI: NewCatalogAPI(catalog),
		OrderAPI:   NewOrderAPI(service),
	})
}

func serve(router *gin.Engine, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeProducts(t *testing.T, rec *httptest.ResponseRecorder) []storefront.Product {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var out []storefront.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListProducts_Filters(t *testing.T) {
	router := newTestRouter(t)

	all := decodeProducts(t, serve(router, http.MethodGet, "/api/products", nil, nil))
	assert.Len(t, all, 6)

	recommended := decodeProducts(t, serve(router, http.MethodGet, "/api/products?recommended=true", nil, nil))
	require.Len(t, recommended, 3)
	for _, p := range recommended {
		assert.True(t, p.Recommended)
	}

	kitchen := decodeProducts(t, serve(router, http.MethodGet, "/api/products?categoryId=1", nil, nil))
	assert.Len(t, kitchen, 2)

	search := decodeProducts(t, serve(router, http.MethodGet, "/api/products?searchTerm=LAMP", nil, nil))
	require.Len(t, search, 1)
	assert.Equal(t, "Desk Lamp", search[0].Name)
}

func TestListProducts_InvalidQuery(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/api/products?categoryId=kitchen", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/products/4", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var product storefront.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Pruning Shears", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("19.999")))

	rec = serve(router, http.MethodGet, "/api/products/999", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	rec = serve(router, http.MethodGet, "/api/products/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.NotEmpty(t, problem.Message)
}

func TestListCategories(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []storefront.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, 5)
	assert.Equal(t, "Home", categories[0].MainCategory)
	assert.Equal(t, "Kitchen", categories[0].SubCategoryName)
}

func TestCreateOrder(t *testing.T) {
	router := newTestRouter(t)
	body := storefront.CreateOrderRequest{Items: []storefront.OrderItem{{ProductID: 1, Quantity: 2}}}

	rec := serve(router, http.MethodPost, "/api/orders", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var order storefront.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.NotZero(t, order.ID)
	assert.Equal(t, "created", order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("25")))
	assert.Contains(t, rec.Body.String(), `"total":25,`)

	rec = serve(router, http.MethodGet, "/api/orders", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []storefront.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)

	rec = serve(router, http.MethodGet, "/api/orders/12345", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestCreateOrder_Rejections(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		body   any
		status int
	}{
		{"malformed", "not an order", http.StatusBadRequest},
		{"no items", storefront.CreateOrderRequest{}, http.StatusBadRequest},
		{"unknown product", storefront.CreateOrderRequest{Items: []storefront.OrderItem{{ProductID: 77, Quantity: 1}}}, http.StatusBadRequest},
		{"out of stock", storefront.CreateOrderRequest{Items: []storefront.OrderItem{{ProductID: 6, Quantity: 1}}}, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, "/api/orders", tc.body, nil)
			assert.Equal(t, tc.status, rec.Code)
			var problem apierrors.ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.NotEmpty(t, problem.Message)
		})
	}
}

func TestCreateOrder_IdempotencyKey(t *testing.T) {
	router := newTestRouter(t)
	headers := map[string]string{IdempotencyKeyHeader: "retry-1"}
	body := storefront.CreateOrderRequest{Items: []storefront.OrderItem{{ProductID: 3, Quantity: 1}}}

	var first, second storefront.Order
	rec := serve(router, http.MethodPost, "/api/orders", body, headers)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	rec = serve(router, http.MethodPost, "/api/orders", body, headers)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.ID, second.ID)

	other := storefront.CreateOrderRequest{Items: []storefront.OrderItem{{ProductID: 3, Quantity: 2}}}
	rec = serve(router, http.MethodPost, "/api/orders", other, headers)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStoresAgainstStub(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(newTestRouter(t))
	t.Cleanup(srv.Close)

	client, err := storefront.NewClient(srv.URL+BasePath, storefront.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	catalog := catalogapp.NewStore(cataloggateway.New(client))
	landing := catalog.Bootstrap(ctx)
	require.Equal(t, loadstate.StatusSuccess, landing.Categories.Status)
	require.Equal(t, loadstate.StatusSuccess, landing.Recommended.Status)
	assert.Len(t, landing.Recommended.Value, 3)
	assert.Equal(t, []string{"Home", "Outdoor", "Office"}, catalog.MainCategories())
	assert.Len(t, catalog.SubcategoriesByMainCategory("Outdoor"), 2)

	catalog.FetchProductByID(ctx, 3)
	lamp := catalog.Snapshot().CurrentProduct.Value
	require.NotNil(t, lamp)
	catalog.FetchProductByID(ctx, 4)
	shears := catalog.Snapshot().CurrentProduct.Value
	require.NotNil(t, shears)

	catalog.FetchProductByID(ctx, 404)
	missing := catalog.Snapshot().CurrentProduct
	assert.Equal(t, loadstate.StatusError, missing.Status)
	assert.ErrorIs(t, missing.Err, apierrors.ErrNotFound)

	cart := cartapp.NewStore()
	require.NoError(t, cart.AddItem(*lamp, 2))
	require.NoError(t, cart.AddItem(*shears, 2))
	assert.Equal(t, "119.98", cart.TotalPriceText())

	orders := ordersapp.NewStore(ordersgateway.New(client))
	placed, err := orders.PlaceOrder(ctx, cart.OrderPayload())
	require.NoError(t, err)
	assert.True(t, placed.Total.Equal(decimal.RequireFromString("119.978")))
	assert.Equal(t, ordersdomain.StatusCreated, placed.Status)

	snap := orders.Snapshot()
	assert.Equal(t, loadstate.StatusSuccess, snap.Placement.Status)
	require.Len(t, snap.Orders.Value, 1)
	assert.Equal(t, placed.ID, snap.Orders.Value[0].ID)

	orders.FetchOrderByID(ctx, placed.ID)
	require.NotNil(t, orders.Snapshot().CurrentOrder.Value)
	assert.Equal(t, placed.ID, orders.Snapshot().CurrentOrder.Value.ID)

	orders.FetchOrderByID(ctx, 999)
	assert.ErrorIs(t, orders.Snapshot().CurrentOrder.Err, apierrors.ErrNotFound)

	catalog.FetchProductByID(ctx, 3)
	assert.Equal(t, 3, catalog.Snapshot().CurrentProduct.Value.Stock)

	_, err = orders.PlaceOrder(ctx, ordersdomain.PlaceOrderInput{Items: []ordersdomain.Item{{ProductID: 5, Quantity: 4}}})
	require.Error(t, err)
	var transport *apierrors.TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusUnprocessableEntity, transport.Status)
	assert.Contains(t, transport.Message, "out of stock")

	snap = orders.Snapshot()
	assert.Equal(t, loadstate.StatusError, snap.Placement.Status)
	assert.Len(t, snap.Orders.Value, 1)

	orders.FetchOrders(ctx)
	assert.Len(t, orders.Snapshot().Orders.Value, 1)
}

func TestMoneyIsEncodedAsNumbers(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/api/products/4", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "19.999", string(raw["price"]))
}
