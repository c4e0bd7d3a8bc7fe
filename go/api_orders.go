package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	ordersgateway "github.com/Apurer/storefront-state/internal/domains/orders/adapters/gateway"
	ordersports "github.com/Apurer/storefront-state/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

// IdempotencyKeyHeader carries the client-generated key of a POST /orders.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI serves order placement and lookup.
type OrderAPI struct {
	service ordersports.Service
}

// NewOrderAPI wires dependencies.
func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /api/orders
// Place an order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload storefront.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ProblemBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), ordersgateway.FromCreateRequest(payload), c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordersgateway.FromDomainOrder(*order))
}

// Get /api/orders
// List orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]storefront.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, ordersgateway.FromDomainOrder(*o))
	}
	c.JSON(http.StatusOK, out)
}

// Get /api/orders/:id
// Get an order; an unknown id answers with an empty body
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if errors.Is(err, ordersports.ErrNotFound) {
		c.Status(http.StatusOK)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersgateway.FromDomainOrder(*order))
}
