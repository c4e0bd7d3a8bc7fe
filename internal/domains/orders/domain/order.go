package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the backend-assigned order state. The client treats it as
// opaque and never validates it.
type Status string

const (
	StatusCreated   Status = "created"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

var (
	ErrNoItems          = errors.New("order must contain at least one item")
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidStatus    = errors.New("order status is invalid")
	ErrNegativeTotal    = errors.New("order total must not be negative")
)

// Item is one product-quantity pair of an order.
type Item struct {
	ProductID int64
	Quantity  int
}

// Order is a placed purchase as returned by the backend.
type Order struct {
	ID        int64
	Items     []Item
	Total     decimal.Decimal
	Status    Status
	CreatedAt time.Time
}

// Clone returns a deep copy.
func (o Order) Clone() Order {
	o.Items = append([]Item(nil), o.Items...)
	return o
}

// ItemCount is the sum of item quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// PlaceOrderInput is the payload of a new order.
type PlaceOrderInput struct {
	Items []Item
}

// Validate enforces the payload invariants.
func (in PlaceOrderInput) Validate() error {
	if len(in.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return ErrInvalidProductID
		}
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// NewOrder builds a backend order in the created state.
func NewOrder(items []Item, total decimal.Decimal, createdAt time.Time) (*Order, error) {
	if err := (PlaceOrderInput{Items: items}).Validate(); err != nil {
		return nil, err
	}
	order := &Order{
		Items:     append([]Item(nil), items...),
		Total:     total,
		Status:    StatusCreated,
		CreatedAt: createdAt.UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on a stored order.
func (o *Order) Validate() error {
	if err := (PlaceOrderInput{Items: o.Items}).Validate(); err != nil {
		return err
	}
	if o.Total.IsNegative() {
		return ErrNegativeTotal
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus accepts only known states and defaults to created.
func (o *Order) UpdateStatus(status Status) error {
	if status == "" {
		status = StatusCreated
	}
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusCreated, StatusPaid, StatusShipped, StatusCancelled:
		return true
	default:
		return false
	}
}
