package ports

import (
	"context"

	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
)

// Gateway is the catalog's outbound port to the storefront backend.
// GetProduct returns (nil, nil) when the backend answers with no payload.
type Gateway interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
