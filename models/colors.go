package models

// ProductColor is one selectable color of a product.
// Position keeps the catalog order; the first color is the default variant.
type ProductColor struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"uniqueIndex:idx_product_color;not null"`
	Name      string `gorm:"uniqueIndex:idx_product_color;not null"`
	Value     string `gorm:"not null;default:''"`
	Position  int    `gorm:"not null;default:0"`
}

func (c *ProductColor) TableName() string {
	return "product_colors"
}
