package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrNegativePrice    = errors.New("product price must not be negative")
	ErrNegativeStock    = errors.New("product stock must not be negative")
	ErrEmptyName        = errors.New("product name is required")
)

// Product is a catalog item as seen by the client. It is replaced
// wholesale on every refetch and never mutated locally.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int64
	ImageURL    string
	Recommended bool
}

// Validate enforces the product invariants.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// ProductFilter narrows a product listing. Nil fields are not sent; a zero
// category id and a blank search term count as unset.
type ProductFilter struct {
	CategoryID  *int64
	Recommended *bool
	SearchTerm  *string
}

// Normalize drops the fields that would not be forwarded.
func (f ProductFilter) Normalize() ProductFilter {
	out := ProductFilter{Recommended: f.Recommended}
	if f.CategoryID != nil && *f.CategoryID != 0 {
		id := *f.CategoryID
		out.CategoryID = &id
	}
	if f.SearchTerm != nil && strings.TrimSpace(*f.SearchTerm) != "" {
		term := *f.SearchTerm
		out.SearchTerm = &term
	}
	return out
}

// Matches reports whether p satisfies the filter. Search is a
// case-insensitive substring match over name and description.
func (f ProductFilter) Matches(p Product) bool {
	f = f.Normalize()
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.Recommended != nil && p.Recommended != *f.Recommended {
		return false
	}
	if f.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*f.SearchTerm))
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	return true
}

// ByCategory builds a filter on a sub-category id.
func ByCategory(id int64) ProductFilter {
	return ProductFilter{CategoryID: &id}
}

// Recommended builds a filter on the recommended flag.
func Recommended() ProductFilter {
	flag := true
	return ProductFilter{Recommended: &flag}
}

// Search builds a free-text filter.
func Search(term string) ProductFilter {
	return ProductFilter{SearchTerm: &term}
}
