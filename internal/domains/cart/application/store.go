package application

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-state/internal/domains/cart/domain"
	catalog "github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	orders "github.com/Apurer/storefront-state/internal/domains/orders/domain"
	"github.com/Apurer/storefront-state/internal/shared/loadstate"
)

// Snapshot is an immutable view of the cart.
type Snapshot struct {
	Version   uint64
	Lines     []domain.Line
	ItemCount int
	Total     decimal.Decimal
}

// TotalText renders Total with two decimals.
func (s Snapshot) TotalText() string {
	return domain.FormatPrice(s.Total)
}

// Store owns the local shopping cart. Rejected mutations return an error
// and are never stored as state.
type Store struct {
	logger *slog.Logger

	mu      sync.RWMutex
	version uint64
	cart    domain.Cart

	subs loadstate.Subscribers[Snapshot]
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddItem adds quantity of product. It returns ErrInvalidQuantity for a
// quantity below one and a *StockExceededError when the line would exceed
// the product's stock; the cart is unchanged in both cases.
func (s *Store) AddItem(product catalog.Product, quantity int) error {
	var err error
	s.mutate(func() bool {
		err = s.cart.Add(product, quantity)
		return err == nil
	})
	s.logRejection(err, product.ID)
	return err
}

// AddOne adds a single unit of product.
func (s *Store) AddOne(product catalog.Product) error {
	return s.AddItem(product, 1)
}

// RemoveItem deletes the line for productID; absent lines are ignored.
func (s *Store) RemoveItem(productID int64) {
	s.mutate(func() bool { return s.cart.Remove(productID) })
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
// Above stock, the line is clamped to the stock and a *StockExceededError
// is returned. Unknown product ids are ignored.
func (s *Store) UpdateQuantity(productID int64, quantity int) error {
	var err error
	s.mutate(func() bool {
		var changed bool
		changed, err = s.cart.SetQuantity(productID, quantity)
		return changed
	})
	s.logRejection(err, productID)
	return err
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mutate(s.cart.Clear)
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []domain.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Lines()
}

// ItemCount is the sum of all line quantities.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.ItemCount()
}

// TotalPrice is the exact sum of price × quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Total()
}

// TotalPriceText renders TotalPrice with two decimals, rounding half up.
func (s *Store) TotalPriceText() string {
	return domain.FormatPrice(s.TotalPrice())
}

// OrderPayload builds the order input for the current lines. The cart is
// not cleared.
func (s *Store) OrderPayload() orders.PlaceOrderInput {
	lines := s.Lines()
	items := make([]orders.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, orders.Item{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return orders.PlaceOrderInput{Items: items}
}

// Snapshot returns the current cart view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every cart change.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.subs.Subscribe(fn)
}

// mutate publishes only when fn reports a change.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.subs.Publish(snap.Version, snap)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version:   s.version,
		Lines:     s.cart.Lines(),
		ItemCount: s.cart.ItemCount(),
		Total:     s.cart.Total(),
	}
}

func (s *Store) logRejection(err error, productID int64) {
	if err == nil {
		return
	}
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "cart change rejected",
		slog.Int64("product.id", productID), slog.String("error", err.Error()))
}
