package models

import (
	"github.com/obrafurniture/quote-service/internal/catalog"
)

// Product represents a product in the catalog.
// Price keeps the raw source text; it is validated when the catalog index is
// built so a malformed value never blocks loading the rest of the catalog.
type Product struct {
	ID          uint           `gorm:"primaryKey"`
	Code        string         `gorm:"uniqueIndex;not null"`
	Name        string         `gorm:"not null"`
	Category    string         `gorm:"index;not null"`
	Dimensions  string         `gorm:"not null;default:''"`
	Description string         `gorm:"type:text;not null;default:''"`
	Price       string         `gorm:"not null;default:''"`
	Colors      []ProductColor `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (p *Product) TableName() string {
	return "products"
}

// ToCatalog converts the row into the in-memory catalog form.
func (p *Product) ToCatalog() catalog.Product {
	var colors []catalog.ColorVariant
	for _, c := range p.Colors {
		colors = append(colors, catalog.ColorVariant{Name: c.Name, Value: c.Value})
	}
	return catalog.NewProduct(p.Code, p.Name, p.Category, p.Dimensions, p.Description, p.Price, colors)
}
