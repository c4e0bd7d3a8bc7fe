package ports

import (
	"context"

	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
)

// Gateway is the client's view of the remote order endpoints.
type Gateway interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	// GetOrder returns nil, nil when the backend answers with an empty body.
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, input domain.PlaceOrderInput, idempotencyKey string) (*domain.Order, error)
}
