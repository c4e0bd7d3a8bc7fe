package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository is the backend-side catalog source served by the stub API.
type Repository interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	SaveProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	SaveCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	// AdjustStock adds delta to a product's stock, refusing to go negative.
	AdjustStock(ctx context.Context, id int64, delta int) error
}

// ErrInsufficientStock is returned by AdjustStock when stock would go negative.
var ErrInsufficientStock = errors.New("insufficient stock")
