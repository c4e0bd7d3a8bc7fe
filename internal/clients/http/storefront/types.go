package storefront

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the wire shape of a catalog product.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int64           `json:"categoryId"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Recommended bool            `json:"recommended,omitempty"`
}

// Category is the wire shape of a sub-category record.
type Category struct {
	ID              int64  `json:"id"`
	MainCategory    string `json:"mainCategory"`
	SubCategoryName string `json:"subCategoryName"`
	Description     string `json:"description,omitempty"`
}

// OrderItem is one product/quantity pair of an order.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Order is the wire shape of a created order.
type Order struct {
	ID        int64           `json:"id"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt Timestamp       `json:"createdAt"`
}

// timestampLayouts are tried in order. Layouts without a zone read as UTC;
// fractional seconds are accepted by all of them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is an order creation time. Backends differ on the zone suffix,
// so decoding accepts RFC 3339 and local date-times. Encoding is RFC 3339.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("createdAt: unrecognised timestamp %q", raw)
}

// CreateOrderRequest is the POST /orders body.
type CreateOrderRequest struct {
	Items []OrderItem `json:"items"`
}

// ListProductsParams holds the optional GET /products query parameters.
// Nil fields are not sent.
type ListProductsParams struct {
	CategoryID  *int64
	Recommended *bool
	SearchTerm  *string
}

// ErrorBody is the failure payload. Storefront backends send `message`;
// problem-details servers may send only `detail` or `title`.
type ErrorBody struct {
	Message *string `json:"message,omitempty"`
	Detail  *string `json:"detail,omitempty"`
	Title   *string `json:"title,omitempty"`
}
