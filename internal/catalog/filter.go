package catalog

import "strings"

// Filter narrows a product list. Kinds combine with AND; bands combine with
// OR. An empty set disables that kind.
type Filter struct {
	Categories []string
	Bands      []PriceBand
}

// Apply returns the matching products in input order.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.matchCategory(p) && f.matchBand(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f Filter) matchCategory(p Product) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if strings.EqualFold(strings.TrimSpace(c), p.Category) {
			return true
		}
	}
	return false
}

func (f Filter) matchBand(p Product) bool {
	if len(f.Bands) == 0 {
		return true
	}
	for _, b := range f.Bands {
		if b.Contains(p.Price) {
			return true
		}
	}
	return false
}
