package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-state/internal/domains/orders/domain"
	"github.com/Apurer/storefront-state/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and runs migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord keeps items as parallel arrays; position i of both arrays is one item.
type orderRecord struct {
	ID             int64           `gorm:"primaryKey;column:id;autoIncrement"`
	ProductIDs     pq.Int64Array   `gorm:"column:product_ids;type:bigint[]"`
	Quantities     pq.Int64Array   `gorm:"column:quantities;type:bigint[]"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(14,3)"`
	Status         string          `gorm:"column:status;type:varchar(32);index"`
	IdempotencyKey *string         `gorm:"column:idempotency_key;size:128;uniqueIndex"`
	CreatedAt      time.Time       `gorm:"column:created_at;index"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Save inserts the order. A conflicting idempotency key leaves the table
// untouched and returns the stored order.
func (r *Repository) Save(ctx context.Context, order *domain.Order, idempotencyKey string) (*domain.Order, bool, error) {
	if err := r.ensureDB(); err != nil {
		return nil, false, err
	}
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
	record := toRecord(&clone, idempotencyKey)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).Create(&record)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := r.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, ports.ErrNotFound
		}
		return existing, false, nil
	}
	saved := record.toDomain()
	return &saved, true, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	order := record.toDomain()
	return &order, nil
}

func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, nil
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	order := record.toDomain()
	return &order, nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order := records[i].toDomain()
		orders = append(orders, &order)
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order, key string) orderRecord {
	rec := orderRecord{
		ProductIDs: make(pq.Int64Array, 0, len(order.Items)),
		Quantities: make(pq.Int64Array, 0, len(order.Items)),
		Total:      order.Total,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
	}
	for _, it := range order.Items {
		rec.ProductIDs = append(rec.ProductIDs, it.ProductID)
		rec.Quantities = append(rec.Quantities, int64(it.Quantity))
	}
	if key != "" {
		rec.IdempotencyKey = &key
	}
	return rec
}

func (r orderRecord) toDomain() domain.Order {
	items := make([]domain.Item, 0, len(r.ProductIDs))
	for i, id := range r.ProductIDs {
		qty := int64(0)
		if i < len(r.Quantities) {
			qty = r.Quantities[i]
		}
		items = append(items, domain.Item{ProductID: id, Quantity: int(qty)})
	}
	return domain.Order{
		ID:        r.ID,
		Items:     items,
		Total:     r.Total,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt.UTC(),
	}
}
