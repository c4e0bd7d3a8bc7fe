package application

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-state/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/storefront-state/internal/shared/errors"
	"github.com/Apurer/storefront-state/internal/shared/loadstate"
)

// Snapshot is an immutable view of every catalog slot.
type Snapshot struct {
	Version          uint64
	Products         loadstate.State[[]domain.Product]
	Categories       loadstate.State[[]domain.Category]
	Recommended      loadstate.State[[]domain.Product]
	CategoryProducts loadstate.State[[]domain.Product]
	SearchResults    loadstate.State[[]domain.Product]
	CurrentProduct   loadstate.State[*domain.Product]
}

// MainCategories derives the main-category labels from the category list.
func (s Snapshot) MainCategories() []string {
	return domain.MainCategories(s.Categories.Value)
}

// SubcategoriesByMainCategory filters the category list by main category.
func (s Snapshot) SubcategoriesByMainCategory(name string) []domain.Category {
	return domain.SubcategoriesOf(s.Categories.Value, name)
}

// Store owns the catalog read state. Every fetch kind has its own slot;
// overlapping calls of one kind resolve to the most recently issued one.
// Fetch failures are recorded in the slot and never returned.
type Store struct {
	gateway ports.Gateway
	logger  *slog.Logger

	mu               sync.RWMutex
	version          uint64
	products         loadstate.Slot[[]domain.Product]
	categories       loadstate.Slot[[]domain.Category]
	recommended      loadstate.Slot[[]domain.Product]
	categoryProducts loadstate.Slot[[]domain.Product]
	searchResults    loadstate.Slot[[]domain.Product]
	currentProduct   loadstate.Slot[*domain.Product]

	subs loadstate.Subscribers[Snapshot]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for discarded superseded responses.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore wires a catalog store to its gateway.
func NewStore(gateway ports.Gateway, opts ...Option) *Store {
	s := &Store{
		gateway:          gateway,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		products:         loadstate.NewSlot([]domain.Product{}),
		categories:       loadstate.NewSlot([]domain.Category{}),
		recommended:      loadstate.NewSlot([]domain.Product{}),
		categoryProducts: loadstate.NewSlot([]domain.Product{}),
		searchResults:    loadstate.NewSlot([]domain.Product{}),
		currentProduct:   loadstate.NewSlot[*domain.Product](nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FetchProducts replaces the product list with the filtered listing.
func (s *Store) FetchProducts(ctx context.Context, filter domain.ProductFilter) {
	filter = filter.Normalize()
	s.fetchProducts(ctx, &s.products, "products", filter)
}

// FetchRecommendedProducts fills the recommended slot.
func (s *Store) FetchRecommendedProducts(ctx context.Context) {
	s.fetchProducts(ctx, &s.recommended, "recommended", domain.Recommended())
}

// FetchProductsByCategory fills the current-category slot.
func (s *Store) FetchProductsByCategory(ctx context.Context, categoryID int64) {
	s.fetchProducts(ctx, &s.categoryProducts, "category_products", domain.ByCategory(categoryID).Normalize())
}

// SearchProducts fills the search-results slot.
func (s *Store) SearchProducts(ctx context.Context, term string) {
	s.fetchProducts(ctx, &s.searchResults, "search", domain.Search(term).Normalize())
}

// FetchCategories replaces the category list.
func (s *Store) FetchCategories(ctx context.Context) {
	ticket := s.begin(func() loadstate.Ticket { return s.categories.Begin() })
	categories, err := s.gateway.ListCategories(ctx)
	if categories == nil {
		categories = []domain.Category{}
	}
	s.settle(ctx, "categories", ticket, func() bool {
		if err != nil {
			return s.categories.Fail(ticket, err, []domain.Category{})
		}
		return s.categories.Resolve(ticket, categories)
	})
}

// FetchProductByID replaces the product detail. An empty response is
// recorded as a NotFoundError and leaves the detail nil.
func (s *Store) FetchProductByID(ctx context.Context, id int64) {
	ticket := s.begin(func() loadstate.Ticket { return s.currentProduct.Begin() })
	product, err := s.gateway.GetProduct(ctx, id)
	if err == nil && product == nil {
		err = apierrors.NewNotFoundError("product", id)
	}
	s.settle(ctx, "product_detail", ticket, func() bool {
		if err != nil {
			return s.currentProduct.Fail(ticket, err, nil)
		}
		return s.currentProduct.Resolve(ticket, product)
	})
}

// Bootstrap loads categories and recommendations concurrently, as a
// landing page does, and returns the resulting snapshot.
func (s *Store) Bootstrap(ctx context.Context) Snapshot {
	var g errgroup.Group
	g.Go(func() error {
		s.FetchCategories(ctx)
		return nil
	})
	g.Go(func() error {
		s.FetchRecommendedProducts(ctx)
		return nil
	})
	_ = g.Wait()
	return s.Snapshot()
}

// MainCategories returns the distinct main-category labels of the current
// category list, recomputed on every call.
func (s *Store) MainCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.MainCategories(s.categories.State().Value)
}

// SubcategoriesByMainCategory returns the categories under name.
func (s *Store) SubcategoriesByMainCategory(name string) []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SubcategoriesOf(s.categories.State().Value, name)
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

func (s *Store) fetchProducts(ctx context.Context, slot *loadstate.Slot[[]domain.Product], kind string, filter domain.ProductFilter) {
	ticket := s.begin(func() loadstate.Ticket { return slot.Begin() })
	products, err := s.gateway.ListProducts(ctx, filter)
	if products == nil {
		products = []domain.Product{}
	}
	s.settle(ctx, kind, ticket, func() bool {
		if err != nil {
			return slot.Fail(ticket, err, []domain.Product{})
		}
		return slot.Resolve(ticket, products)
	})
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
		s.logger.LogAttrs(ctx, slog.LevelDebug, "discarded superseded catalog response",
			slog.String("catalog.kind", kind), slog.Uint64("ticket", uint64(ticket)))
	}
}

// mutate runs fn under the write lock and publishes a snapshot if fn
// reports a change.
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
	return Snapshot{
		Version:          s.version,
		Products:         cloneState(s.products.State()),
		Categories:       cloneState(s.categories.State()),
		Recommended:      cloneState(s.recommended.State()),
		CategoryProducts: cloneState(s.categoryProducts.State()),
		SearchResults:    cloneState(s.searchResults.State()),
		CurrentProduct:   cloneDetail(s.currentProduct.State()),
	}
}

func cloneDetail(state loadstate.State[*domain.Product]) loadstate.State[*domain.Product] {
	if state.Value != nil {
		product := *state.Value
		state.Value = &product
	}
	return state
}

func cloneState[T any](state loadstate.State[[]T]) loadstate.State[[]T] {
	state.Value = slices.Clone(state.Value)
	if state.Value == nil {
		state.Value = []T{}
	}
	return state
}
