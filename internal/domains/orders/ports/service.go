package ports

import (
	"context"

	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
)

// Service exposes order use cases to the stub backend's HTTP adapter.
type Service interface {
	PlaceOrder(ctx context.Context, input domain.PlaceOrderInput, idempotencyKey string) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}
