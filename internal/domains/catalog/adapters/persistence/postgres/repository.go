package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-state/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and runs migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

type categoryRecord struct {
	ID              int64     `gorm:"primaryKey;column:id;autoIncrement:false"`
	MainCategory    string    `gorm:"column:main_category;index"`
	SubCategoryName string    `gorm:"column:sub_category_name"`
	Description     string    `gorm:"column:description"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// ListProducts applies the filter in SQL and orders by id.
func (r *Repository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&productRecord{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Recommended != nil {
		query = query.Where("recommended = ?", *filter.Recommended)
	}
	if filter.SearchTerm != nil {
		pattern := "%" + escapeLike(strings.TrimSpace(*filter.SearchTerm)) + "%"
		query = query.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	var records []productRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	p := record.toDomain()
	return &p, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(records))
	for _, rec := range records {
		categories = append(categories, domain.Category{
			ID:              rec.ID,
			MainCategory:    rec.MainCategory,
			SubCategoryName: rec.SubCategoryName,
			Description:     rec.Description,
		})
	}
	return categories, nil
}

// SaveProduct upserts a product by id.
func (r *Repository) SaveProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := productRecord{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CategoryID:  product.CategoryID,
		ImageURL:    product.ImageURL,
		Recommended: product.Recommended,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"description": record.Description,
				"price":       record.Price,
				"stock":       record.Stock,
				"category_id": record.CategoryID,
				"image_url":   record.ImageURL,
				"recommended": record.Recommended,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, record.ID)
}

// SaveCategory upserts a category by id.
func (r *Repository) SaveCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category.ID <= 0 {
		return nil, domain.ErrInvalidCategoryID
	}
	record := categoryRecord{
		ID:              category.ID,
		MainCategory:    category.MainCategory,
		SubCategoryName: category.SubCategoryName,
		Description:     category.Description,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"main_category":     record.MainCategory,
				"sub_category_name": record.SubCategoryName,
				"description":       record.Description,
				"updated_at":        gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// AdjustStock applies delta in a single guarded UPDATE.
func (r *Repository) AdjustStock(ctx context.Context, id int64, delta int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrInsufficientStock
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func (r productRecord) toDomain() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		Recommended: r.Recommended,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
