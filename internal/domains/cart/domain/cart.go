package domain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	catalog "github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

var (
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least one", apierrors.ErrValidation)
	ErrStockExceeded   = fmt.Errorf("%w: not enough stock", apierrors.ErrValidation)
)

// StockExceededError rejects a quantity above the product's stock.
// InCart is the quantity already held before the request.
type StockExceededError struct {
	ProductID   int64
	ProductName string
	Stock       int
	InCart      int
	Requested   int
}

func (e *StockExceededError) Error() string {
	if e.InCart > 0 {
		return fmt.Sprintf("not enough stock for %q: %d left, %d already in cart, %d requested", e.ProductName, e.Stock, e.InCart, e.Requested)
	}
	return fmt.Sprintf("not enough stock for %q: %d left, %d requested", e.ProductName, e.Stock, e.Requested)
}

func (e *StockExceededError) Unwrap() error { return ErrStockExceeded }

// IsStockExceeded extracts a StockExceededError from err.
func IsStockExceeded(err error) (*StockExceededError, bool) {
	var target *StockExceededError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Line pairs a product with a quantity in 1..Product.Stock.
type Line struct {
	Product  catalog.Product
	Quantity int
}

// Subtotal is price × quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per product id, in insertion order. The
// zero value is an empty cart. Cart is not safe for concurrent use.
type Cart struct {
	lines []Line
}

// Add puts quantity more of product into the cart. The line is left
// untouched when the result would exceed product.Stock.
func (c *Cart) Add(product catalog.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.index(product.ID); i >= 0 {
		line := &c.lines[i]
		if line.Quantity+quantity > product.Stock {
			return stockExceeded(product, line.Quantity, quantity)
		}
		line.Quantity += quantity
		return nil
	}
	if quantity > product.Stock {
		return stockExceeded(product, 0, quantity)
	}
	c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
	return nil
}

// Remove deletes the line for productID and reports whether one existed.
func (c *Cart) Remove(productID int64) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	return true
}

// SetQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line. A quantity above stock clamps the line to the
// stock and still returns a StockExceededError. changed reports whether
// the cart was modified.
func (c *Cart) SetQuantity(productID int64, quantity int) (changed bool, err error) {
	i := c.index(productID)
	if i < 0 {
		return false, nil
	}
	if quantity <= 0 {
		return c.Remove(productID), nil
	}
	line := &c.lines[i]
	if quantity <= line.Product.Stock {
		changed = line.Quantity != quantity
		line.Quantity = quantity
		return changed, nil
	}
	err = stockExceeded(line.Product, line.Quantity, quantity)
	changed = line.Quantity != line.Product.Stock
	line.Quantity = line.Product.Stock
	if line.Quantity <= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		changed = true
	}
	return changed, err
}

// Clear empties the cart and reports whether it held anything.
func (c *Cart) Clear() bool {
	if len(c.lines) == 0 {
		return false
	}
	c.lines = nil
	return true
}

// Lines returns a copy of the lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Total is the exact sum of line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// FormatPrice renders an amount with two decimals, rounding half up.
func FormatPrice(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func (c *Cart) index(productID int64) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.Product.ID == productID })
}

func stockExceeded(product catalog.Product, inCart, requested int) *StockExceededError {
	return &StockExceededError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Stock:       product.Stock,
		InCart:      inCart,
		Requested:   requested,
	}
}
