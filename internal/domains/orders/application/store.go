package application

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
	"github.com/Apurer/storefront-state/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
	"github.com/Apurer/storefront-state/internal/shared/loadstate"
)

// Snapshot is an immutable view of the order state.
type Snapshot struct {
	Version uint64
	// Orders is newest first once an order has been placed locally; the
	// backend's own ordering is kept as received.
	Orders loadstate.State[[]domain.Order]
	// Placement tracks the last PlaceOrder call.
	Placement    loadstate.State[*domain.Order]
	CurrentOrder loadstate.State[*domain.Order]
}

// Store owns the client-side order state.
type Store struct {
	gateway ports.Gateway
	logger  *slog.Logger
	newKey  func() string

	mu           sync.RWMutex
	version      uint64
	orders       loadstate.Slot[[]domain.Order]
	placement    loadstate.Slot[*domain.Order]
	currentOrder loadstate.Slot[*domain.Order]

	subs loadstate.Subscribers[Snapshot]
}

// StoreOption configures a Store.
type StoreOption func(*Store)

func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIdempotencyKeys overrides the idempotency key source.
func WithIdempotencyKeys(next func() string) StoreOption {
	return func(s *Store) {
		if next != nil {
			s.newKey = next
		}
	}
}

// NewStore wires an order store to its gateway.
func NewStore(gateway ports.Gateway, opts ...StoreOption) *Store {
	s := &Store{
		gateway:      gateway,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		newKey:       uuid.NewString,
		orders:       loadstate.NewSlot([]domain.Order{}),
		placement:    loadstate.NewSlot[*domain.Order](nil),
		currentOrder: loadstate.NewSlot[*domain.Order](nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FetchOrders replaces the order list. On failure the list is emptied and
// the error recorded.
func (s *Store) FetchOrders(ctx context.Context) {
	ticket := s.begin(func() loadstate.Ticket { return s.orders.Begin() })
	orders, err := s.gateway.ListOrders(ctx)
	if orders == nil {
		orders = []domain.Order{}
	}
	s.settle(ctx, "orders", ticket, func() bool {
		if err != nil {
			return s.orders.Fail(ticket, err, []domain.Order{})
		}
		return s.orders.Resolve(ticket, orders)
	})
}

// PlaceOrder submits input with a fresh idempotency key. The created order
// is put at the front of the list and returned. A failure is recorded in
// the placement state and returned; the list is left unchanged. Invalid
// input fails the placement without a request being made.
func (s *Store) PlaceOrder(ctx context.Context, input domain.PlaceOrderInput) (*domain.Order, error) {
	if err := input.Validate(); err != nil {
		err = mapError(err)
		s.mutate(func() bool {
			return s.placement.Fail(s.placement.Begin(), err, nil)
		})
		return nil, err
	}
	key := s.newKey()
	ticket := s.begin(func() loadstate.Ticket { return s.placement.Begin() })
	order, err := s.gateway.CreateOrder(ctx, input, key)
	if err == nil && order == nil {
		err = apierrors.NewTransportError("create order", 0, "backend returned an empty order", nil)
	}

	var placed domain.Order
	if err == nil {
		placed = order.Clone()
	}
	s.mutate(func() bool {
		if err != nil {
			s.placement.Fail(ticket, err, nil)
			return true
		}
		s.orders.Update(func(list []domain.Order) []domain.Order {
			return append([]domain.Order{placed.Clone()}, list...)
		})
		s.placement.Resolve(ticket, &placed)
		return true
	})
	if err != nil {
		return nil, err
	}
	out := placed.Clone()
	return &out, nil
}

// FetchOrderByID loads one order into the detail slot. The previous detail
// is cleared when the call starts; an empty response is recorded as a
// NotFoundError.
func (s *Store) FetchOrderByID(ctx context.Context, id int64) {
	ticket := s.begin(func() loadstate.Ticket {
		t := s.currentOrder.Begin()
		s.currentOrder.Update(func(*domain.Order) *domain.Order { return nil })
		return t
	})
	order, err := s.gateway.GetOrder(ctx, id)
	if err == nil && order == nil {
		err = apierrors.NewNotFoundError("order", id)
	}
	s.settle(ctx, "order_detail", ticket, func() bool {
		if err != nil {
			return s.currentOrder.Fail(ticket, err, nil)
		}
		detail := order.Clone()
		return s.currentOrder.Resolve(ticket, &detail)
	})
}

// Snapshot returns a copy of every slot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every state change.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.subs.Subscribe(fn)
}

func (s *Store) begin(start func() loadstate.Ticket) loadstate.Ticket {
	var ticket loadstate.Ticket
	s.mutate(func() bool {
		ticket = start()
		return true
	})
	return ticket
}

func (s *Store) settle(ctx context.Context, kind string, ticket loadstate.Ticket, apply func() bool) {
	if !s.mutate(apply) {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "discarded superseded order response",
			slog.String("orders.kind", kind), slog.Uint64("ticket", uint64(ticket)))
	}
}

func (s *Store) mutate(fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.subs.Publish(snap.Version, snap)
	return true
}

func (s *Store) snapshotLocked() Snapshot {
	orders := s.orders.State()
	list := make([]domain.Order, 0, len(orders.Value))
	for _, o := range orders.Value {
		list = append(list, o.Clone())
	}
	orders.Value = list
	return Snapshot{
		Version:      s.version,
		Orders:       orders,
		Placement:    cloneOrderState(s.placement.State()),
		CurrentOrder: cloneOrderState(s.currentOrder.State()),
	}
}

func cloneOrderState(state loadstate.State[*domain.Order]) loadstate.State[*domain.Order] {
	if state.Value != nil {
		o := state.Value.Clone()
		state.Value = &o
	}
	return state
}
