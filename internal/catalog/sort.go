package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "name-asc"
)

// ParseSortOrder maps unknown or empty values to SortDefault.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortPriceAsc, SortPriceDesc, SortNameAsc:
		return o
	default:
		return SortDefault
	}
}

// Sort returns a stably sorted copy. SortDefault keeps input order.
// Malformed prices compare as zero.
func Sort(products []Product, order SortOrder) []Product {
	out := append([]Product(nil), products...)
	if out == nil {
		out = []Product{}
	}
	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortNameAsc:
		// Collators keep scratch buffers, so one per call.
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i].Name, out[j].Name) < 0 })
	}
	return out
}
