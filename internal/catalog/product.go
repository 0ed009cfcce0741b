package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ColorVariant is one selectable finish of a product.
type ColorVariant struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is an immutable catalog entry. Price is always in the base currency.
type Product struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Dimensions  string          `json:"dimensions"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	RawPrice    string          `json:"-"`
	PriceValid  bool            `json:"-"`
	Colors      []ColorVariant  `json:"colors,omitempty"`
}

// HasColors reports whether a cart line for p must pin a color.
func (p Product) HasColors() bool {
	return len(p.Colors) > 0
}

// Color finds a variant by name, case-insensitively.
func (p Product) Color(name string) (ColorVariant, bool) {
	name = strings.TrimSpace(name)
	for _, c := range p.Colors {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return ColorVariant{}, false
}

func (p Product) clone() Product {
	if p.Colors != nil {
		p.Colors = append([]ColorVariant(nil), p.Colors...)
	}
	return p
}

// ParsePrice validates a raw catalog price. Non-numeric or negative input
// yields (0, false); callers keep the product and price it at zero.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// NewProduct builds a Product from raw loader fields, applying ParsePrice.
func NewProduct(code, name, category, dimensions, description, rawPrice string, colors []ColorVariant) Product {
	price, ok := ParsePrice(rawPrice)
	return Product{
		Code:        strings.TrimSpace(code),
		Name:        name,
		Category:    category,
		Dimensions:  dimensions,
		Description: description,
		Price:       price,
		RawPrice:    rawPrice,
		PriceValid:  ok,
		Colors:      colors,
	}
}
