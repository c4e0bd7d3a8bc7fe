package gateway

import (
	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
)

// ToDomainProduct converts a wire product into the catalog model.
func ToDomainProduct(p storefront.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Recommended: p.Recommended,
	}
}

// FromDomainProduct converts a catalog product to its wire shape.
func FromDomainProduct(p domain.Product) storefront.Product {
	return storefront.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Recommended: p.Recommended,
	}
}

// ToDomainCategory converts a wire category into the catalog model.
func ToDomainCategory(c storefront.Category) domain.Category {
	return domain.Category{
		ID:              c.ID,
		MainCategory:    c.MainCategory,
		SubCategoryName: c.SubCategoryName,
		Description:     c.Description,
	}
}

// FromDomainCategory converts a catalog category to its wire shape.
func FromDomainCategory(c domain.Category) storefront.Category {
	return storefront.Category{
		ID:              c.ID,
		MainCategory:    c.MainCategory,
		SubCategoryName: c.SubCategoryName,
		Description:     c.Description,
	}
}

// ToListParams converts a filter into query parameters; unset keys stay nil.
func ToListParams(filter domain.ProductFilter) *storefront.ListProductsParams {
	filter = filter.Normalize()
	return &storefront.ListProductsParams{
		CategoryID:  filter.CategoryID,
		Recommended: filter.Recommended,
		SearchTerm:  filter.SearchTerm,
	}
}
