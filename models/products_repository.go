package models

import (
	"context"

	"github.com/obrafurniture/quote-service/internal/catalog"
	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func orderedColors(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

// Migrate creates or updates the catalog tables.
func (r *ProductsRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&Product{}, &ProductColor{})
}

// GetAllProducts returns every product in insertion order.
func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).
		Preload("Colors", orderedColors).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// LoadCatalog reads the whole table in the form the catalog index expects.
func (r *ProductsRepository) LoadCatalog(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = rows[i].ToCatalog()
	}
	return out, nil
}

// Seed inserts products when the table is empty. It reports how many rows
// were written; an already populated catalog is left alone.
func (r *ProductsRepository) Seed(ctx context.Context, products []Product) (int, error) {
	written := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for i := range products {
			p := products[i]
			p.Colors = append([]ProductColor(nil), p.Colors...)
			for j := range p.Colors {
				p.Colors[j].Position = j
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}
