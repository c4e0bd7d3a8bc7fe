// Package seed loads the catalog fixture served by the stub backend.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/storefront-state/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-state/internal/domains/catalog/ports"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is a parsed seed file.
type Catalog struct {
	Categories []domain.Category
	Products   []domain.Product
}

type file struct {
	Categories []categoryEntry `yaml:"categories"`
	Products   []productEntry  `yaml:"products"`
}

type categoryEntry struct {
	ID              int64  `yaml:"id"`
	MainCategory    string `yaml:"mainCategory"`
	SubCategoryName string `yaml:"subCategoryName"`
	Description     string `yaml:"description"`
}

type productEntry struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	CategoryID  int64  `yaml:"categoryId"`
	ImageURL    string `yaml:"imageUrl"`
	Recommended bool   `yaml:"recommended"`
}

// Default returns the embedded catalog.
func Default() (Catalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// Load reads a seed file from disk. An empty path yields the embedded catalog.
func Load(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a YAML seed document.
func Parse(r io.Reader) (Catalog, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return Catalog{}, fmt.Errorf("decode seed: %w", err)
	}

	out := Catalog{
		Categories: make([]domain.Category, 0, len(doc.Categories)),
		Products:   make([]domain.Product, 0, len(doc.Products)),
	}
	for _, c := range doc.Categories {
		if c.ID <= 0 {
			return Catalog{}, fmt.Errorf("category %q: id must be greater than zero", c.SubCategoryName)
		}
		out.Categories = append(out.Categories, domain.Category{
			ID:              c.ID,
			MainCategory:    c.MainCategory,
			SubCategoryName: c.SubCategoryName,
			Description:     c.Description,
		})
	}
	for _, p := range doc.Products {
		price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
		if err != nil {
			return Catalog{}, fmt.Errorf("product %d: invalid price %q: %w", p.ID, p.Price, err)
		}
		product := domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			Stock:       p.Stock,
			CategoryID:  p.CategoryID,
			ImageURL:    p.ImageURL,
			Recommended: p.Recommended,
		}
		if err := product.Validate(); err != nil {
			return Catalog{}, fmt.Errorf("product %d: %w", p.ID, err)
		}
		out.Products = append(out.Products, product)
	}
	return out, nil
}

// Apply writes the catalog into repo.
func (c Catalog) Apply(ctx context.Context, repo ports.Repository) error {
	for _, category := range c.Categories {
		if _, err := repo.SaveCategory(ctx, category); err != nil {
			return fmt.Errorf("seed category %d: %w", category.ID, err)
		}
	}
	for _, product := range c.Products {
		if _, err := repo.SaveProduct(ctx, product); err != nil {
			return fmt.Errorf("seed product %d: %w", product.ID, err)
		}
	}
	return nil
}
