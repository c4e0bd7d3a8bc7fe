package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the stub backend schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&orderRecord{},
	)
}

// Category schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID              int64     `gorm:"primaryKey;column:id;autoIncrement:false"`
	MainCategory    string    `gorm:"column:main_category;index"`
	SubCategoryName string    `gorm:"column:sub_category_name"`
	Description     string    `gorm:"column:description"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id;autoIncrement:false"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,3)"`
	Stock       int             `gorm:"column:stock"`
	CategoryID  int64           `gorm:"column:category_id;index"`
	ImageURL    string          `gorm:"column:image_url"`
	Recommended bool            `gorm:"column:recommended;index"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
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
