package application

import (
	"errors"
	"fmt"

	catalogports "github.com/Apurer/storefront-state/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
)

var (
	// ErrInvalidInput signals the payload violated a domain invariant.
	ErrInvalidInput = fmt.Errorf("%w: invalid order input", apierrors.ErrValidation)
	// ErrUnknownProduct signals an item referencing a product that does not exist.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrOutOfStock signals an item asking for more than is available.
	ErrOutOfStock = errors.New("out of stock")
	// ErrIdempotencyConflict signals a reused key with a different payload.
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different payload")
)

// OutOfStockError names the product that could not be reserved.
type OutOfStockError struct {
	ProductID int64
	Name      string
	Available int
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%s (product %d): %d available, %d requested", ErrOutOfStock, e.ProductID, e.Available, e.Requested)
}

func (e *OutOfStockError) Unwrap() error { return ErrOutOfStock }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrNegativeTotal) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, catalogports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrUnknownProduct, err)
	}
	return err
}
