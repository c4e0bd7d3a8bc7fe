package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
	cataloggateway "github.com/Apurer/storefront-state/internal/domains/catalog/adapters/gateway"
	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-state/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

// CatalogAPI serves products and categories from a catalog repository.
type CatalogAPI struct {
	repo catalogports.Repository
}

// NewCatalogAPI wires dependencies.
func NewCatalogAPI(repo catalogports.Repository) CatalogAPI {
	return CatalogAPI{repo: repo}
}

// Get /api/products
// List products, optionally by category, recommendation flag or search term
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	var filter domain.ProductFilter
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "categoryId", query, &filter.CategoryID); err != nil {
		respondProblem(c, apierrors.ProblemBadRequest.WithDetail(err.Error()))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "recommended", query, &filter.Recommended); err != nil {
		respondProblem(c, apierrors.ProblemBadRequest.WithDetail(err.Error()))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "searchTerm", query, &filter.SearchTerm); err != nil {
		respondProblem(c, apierrors.ProblemBadRequest.WithDetail(err.Error()))
		return
	}
	products, err := api.repo.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]storefront.Product, 0, len(products))
	for _, p := range products {
		out = append(out, cataloggateway.FromDomainProduct(p))
	}
	c.JSON(http.StatusOK, out)
}

// Get /api/products/:id
// Get a product; an unknown id answers with an empty body
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.repo.GetProduct(c.Request.Context(), id)
	if errors.Is(err, catalogports.ErrNotFound) {
		c.Status(http.StatusOK)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloggateway.FromDomainProduct(*product))
}

// Get /api/categories
// List every sub-category record
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	categories, err := api.repo.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]storefront.Category, 0, len(categories))
	for _, cat := range categories {
		out = append(out, cataloggateway.FromDomainCategory(cat))
	}
	c.JSON(http.StatusOK, out)
}
