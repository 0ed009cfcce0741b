package catalog

import (
	"github.com/shopspring/decimal"
)

// PriceBand is an inclusive price range. A nil Max means unbounded.
type PriceBand struct {
	ID    string           `json:"id"`
	Label string           `json:"label"`
	Min   decimal.Decimal  `json:"min"`
	Max   *decimal.Decimal `json:"max,omitempty"`
}

// Contains reports whether price falls inside the band.
func (b PriceBand) Contains(price decimal.Decimal) bool {
	if price.LessThan(b.Min) {
		return false
	}
	return b.Max == nil || !price.GreaterThan(*b.Max)
}

func bound(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// DefaultBands mirrors the storefront price filter. Bounds are whole
// centavos, so fractional-centavo prices between two bands match neither.
func DefaultBands() []PriceBand {
	return []PriceBand{
		{ID: "under-10k", Label: "Under ₱10,000", Min: decimal.Zero, Max: bound("9999.99")},
		{ID: "10k-20k", Label: "₱10,000 - ₱20,000", Min: decimal.NewFromInt(10000), Max: bound("20000")},
		{ID: "over-20k", Label: "Over ₱20,000", Min: decimal.RequireFromString("20000.01")},
	}
}
