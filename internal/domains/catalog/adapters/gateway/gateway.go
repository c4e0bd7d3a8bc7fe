package gateway

import (
	"context"
	"errors"

	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-state/internal/domains/catalog/ports"
)

// Gateway adapts the storefront HTTP client to the catalog port.
type Gateway struct {
	client *storefront.Client
}

// New wires a storefront client into the catalog gateway adapter.
func New(client *storefront.Client) *Gateway {
	return &Gateway{client: client}
}

// ListProducts fetches the product listing for filter.
func (g *Gateway) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := g.ensureClient(); err != nil {
		return nil, err
	}
	items, err := g.client.ListProducts(ctx, ToListParams(filter))
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		products = append(products, ToDomainProduct(item))
	}
	return products, nil
}

// GetProduct fetches one product; nil means the backend sent no payload.
func (g *Gateway) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := g.ensureClient(); err != nil {
		return nil, err
	}
	item, err := g.client.GetProduct(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	product := ToDomainProduct(*item)
	return &product, nil
}

// ListCategories fetches every sub-category record.
func (g *Gateway) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if err := g.ensureClient(); err != nil {
		return nil, err
	}
	items, err := g.client.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(items))
	for _, item := range items {
		categories = append(categories, ToDomainCategory(item))
	}
	return categories, nil
}

func (g *Gateway) ensureClient() error {
	if g == nil || g.client == nil {
		return errors.New("catalog gateway not configured")
	}
	return nil
}

var _ ports.Gateway = (*Gateway)(nil)
