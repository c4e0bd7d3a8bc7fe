package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	catalogports "github.com/Apurer/storefront-state/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/storefront-state/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-state/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

var responder = apierrors.NewResponder(mapOrderError, mapCatalogError)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	var stock *ordersapp.OutOfStockError
	switch {
	case errors.As(err, &stock):
		return apierrors.ProblemOutOfStock.
			WithDetail(err.Error()).
			WithExtension("productId", stock.ProductID).
			WithExtension("available", stock.Available), true
	case errors.Is(err, ordersapp.ErrUnknownProduct):
		return apierrors.ProblemValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ProblemValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrIdempotencyConflict):
		return apierrors.ProblemConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ProblemNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogports.ErrNotFound) {
		return apierrors.ProblemNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), &id)
	if err != nil || id <= 0 {
		respondProblem(c, apierrors.ProblemBadRequest.WithDetail(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
