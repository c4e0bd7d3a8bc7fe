package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-state/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog persistence adapter.
type Repository struct {
	mu         sync.RWMutex
	products   map[int64]domain.Product
	categories map[int64]domain.Category
}

func NewRepository() *Repository {
	return &Repository{
		products:   map[int64]domain.Product{},
		categories: map[int64]domain.Category{},
	}
}

// ListProducts returns the matching products ordered by id.
func (r *Repository) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Matches(p) {
			list = append(list, p)
		}
	}
	slices.SortFunc(list, func(a, b domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (r *Repository) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &p, nil
}

func (r *Repository) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b domain.Category) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (r *Repository) SaveProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return &product, nil
}

func (r *Repository) SaveCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	if category.ID <= 0 {
		return nil, domain.ErrInvalidCategoryID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
	return &category, nil
}

func (r *Repository) AdjustStock(_ context.Context, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return ports.ErrInsufficientStock
	}
	p.Stock += delta
	r.products[id] = p
	return nil
}
