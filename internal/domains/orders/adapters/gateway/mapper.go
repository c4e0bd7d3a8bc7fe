package gateway

import (
	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
)

// ToDomainOrder converts a wire order into the orders model.
func ToDomainOrder(o storefront.Order) domain.Order {
	items := make([]domain.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, domain.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return domain.Order{
		ID:        o.ID,
		Items:     items,
		Total:     o.Total,
		Status:    domain.Status(o.Status),
		CreatedAt: o.CreatedAt.Time,
	}
}

// FromDomainOrder converts an order to its wire shape.
func FromDomainOrder(o domain.Order) storefront.Order {
	return storefront.Order{
		ID:        o.ID,
		Items:     fromDomainItems(o.Items),
		Total:     o.Total,
		Status:    string(o.Status),
		CreatedAt: storefront.Timestamp{Time: o.CreatedAt},
	}
}

// ToCreateRequest builds the POST /orders body.
func ToCreateRequest(in domain.PlaceOrderInput) storefront.CreateOrderRequest {
	return storefront.CreateOrderRequest{Items: fromDomainItems(in.Items)}
}

// FromCreateRequest converts a POST /orders body into the order payload.
func FromCreateRequest(req storefront.CreateOrderRequest) domain.PlaceOrderInput {
	items := make([]domain.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return domain.PlaceOrderInput{Items: items}
}

func fromDomainItems(items []domain.Item) []storefront.OrderItem {
	out := make([]storefront.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, storefront.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
