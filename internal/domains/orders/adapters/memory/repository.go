package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
	"github.com/Apurer/storefront-state/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	keys   map[string]int64
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{
		orders: map[int64]*domain.Order{},
		keys:   map[string]int64{},
	}
}

func (r *Repository) Save(_ context.Context, order *domain.Order, idempotencyKey string) (*domain.Order, bool, error) {
	if order == nil {
		return nil, false, errors.New("order is nil")
	}
	clone := order.Clone()
	if err := clone.UpdateStatus(clone.Status); err != nil {
		return nil, false, err
	}
	if err := clone.Validate(); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if idempotencyKey != "" {
		if id, ok := r.keys[idempotencyKey]; ok {
			existing := r.orders[id].Clone()
			return &existing, false, nil
		}
	}
	r.nextID++
	clone.ID = r.nextID
	r.orders[clone.ID] = &clone
	if idempotencyKey != "" {
		r.keys[idempotencyKey] = clone.ID
	}
	out := clone.Clone()
	return &out, true, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := order.Clone()
	return &clone, nil
}

func (r *Repository) GetByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.keys[key]
	if !ok {
		return nil, nil
	}
	clone := r.orders[id].Clone()
	return &clone, nil
}

// List returns the stored orders ordered by id.
func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		clone := order.Clone()
		list = append(list, &clone)
	}
	slices.SortFunc(list, func(a, b *domain.Order) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}
