package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders for the stub backend.
type Repository interface {
	// Save stores a new order and assigns its id. When idempotencyKey is
	// already bound, the previously stored order is returned with created
	// set to false.
	Save(ctx context.Context, order *domain.Order, idempotencyKey string) (saved *domain.Order, created bool, err error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// GetByIdempotencyKey returns nil, nil when the key is unknown.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}
