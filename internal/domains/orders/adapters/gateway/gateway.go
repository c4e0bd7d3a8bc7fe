package gateway

import (
	"context"
	"errors"

	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
	"github.com/Apurer/storefront-state/internal/domains/orders/ports"
)

// Gateway adapts the storefront HTTP client to the orders port.
type Gateway struct {
	client *storefront.Client
}

// New wires a storefront client into the orders gateway adapter.
func New(client *storefront.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if err := g.ensureClient(); err != nil {
		return nil, err
	}
	items, err := g.client.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, ToDomainOrder(item))
	}
	return orders, nil
}

// GetOrder fetches one order; nil means the backend sent no payload.
func (g *Gateway) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if err := g.ensureClient(); err != nil {
		return nil, err
	}
	item, err := g.client.GetOrder(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	order := ToDomainOrder(*item)
	return &order, nil
}

// CreateOrder posts the payload; a blank key sends no Idempotency-Key header.
func (g *Gateway) CreateOrder(ctx context.Context, input domain.PlaceOrderInput, idempotencyKey string) (*domain.Order, error) {
	if err := g.ensureClient(); err != nil {
		return nil, err
	}
	created, err := g.client.CreateOrder(ctx, ToCreateRequest(input), storefront.WithIdempotencyKey(idempotencyKey))
	if err != nil {
		return nil, err
	}
	order := ToDomainOrder(*created)
	return &order, nil
}

func (g *Gateway) ensureClient() error {
	if g == nil || g.client == nil {
		return errors.New("orders gateway not configured")
	}
	return nil
}

var _ ports.Gateway = (*Gateway)(nil)
