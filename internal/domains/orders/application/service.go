package application

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	catalogports "github.com/Apurer/storefront-state/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
	"github.com/Apurer/storefront-state/internal/domains/orders/ports"
)

// Service places and reads orders on the stub backend. It prices items
// from the catalog and reserves their stock.
type Service struct {
	repo    ports.Repository
	catalog catalogports.Repository
	logger  *slog.Logger
	now     func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, catalog catalogports.Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates the payload, reserves stock, and stores the order.
// Replaying an idempotency key returns the order created by the first call.
func (s *Service) PlaceOrder(ctx context.Context, input domain.PlaceOrderInput, idempotencyKey string) (*domain.Order, error) {
	if err := input.Validate(); err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(idempotencyKey)
	if key != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return s.replay(existing, input)
		}
	}

	requested := mergeItems(input.Items)
	total := decimal.Zero
	for _, it := range requested {
		product, err := s.catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, mapError(err)
		}
		if it.Quantity > product.Stock {
			return nil, &OutOfStockError{ProductID: product.ID, Name: product.Name, Available: product.Stock, Requested: it.Quantity}
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	order, err := domain.NewOrder(input.Items, total, s.now())
	if err != nil {
		return nil, mapError(err)
	}

	reserved, err := s.reserve(ctx, requested)
	if err != nil {
		s.release(ctx, reserved)
		return nil, err
	}

	saved, created, err := s.repo.Save(ctx, order, key)
	if err != nil {
		s.release(ctx, reserved)
		return nil, err
	}
	if !created {
		// Lost a race on the same key; the stored order already holds stock.
		s.release(ctx, reserved)
		return s.replay(saved, input)
	}
	s.logger.InfoContext(ctx, "order placed",
		slog.Int64("order.id", saved.ID),
		slog.String("order.total", saved.Total.StringFixed(2)),
		slog.Int("order.items", len(saved.Items)))
	return saved, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns every stored order, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(orders, func(a, b *domain.Order) int { return cmp.Compare(b.ID, a.ID) })
	return orders, nil
}

func (s *Service) replay(existing *domain.Order, input domain.PlaceOrderInput) (*domain.Order, error) {
	if !sameItems(existing.Items, input.Items) {
		return nil, ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *Service) reserve(ctx context.Context, items []domain.Item) ([]domain.Item, error) {
	reserved := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if err := s.catalog.AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
			if errors.Is(err, catalogports.ErrInsufficientStock) {
				return reserved, &OutOfStockError{ProductID: it.ProductID, Requested: it.Quantity}
			}
			return reserved, mapError(err)
		}
		reserved = append(reserved, it)
	}
	return reserved, nil
}

func (s *Service) release(ctx context.Context, items []domain.Item) {
	for _, it := range items {
		if err := s.catalog.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
			s.logger.ErrorContext(ctx, "failed to release reserved stock",
				slog.Int64("product.id", it.ProductID),
				slog.String("error", err.Error()))
		}
	}
}

// mergeItems sums quantities per product, keeping first-seen order.
func mergeItems(items []domain.Item) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

func sameItems(a, b []domain.Item) bool {
	return slices.Equal(mergeItems(a), mergeItems(b))
}

var _ ports.Service = (*Service)(nil)
