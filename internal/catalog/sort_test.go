package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestSort(t *testing.T) {
	products := fixtureCatalog()

	testCases := []struct {
		name     string
		order    SortOrder
		expected []string
	}{
		{
			name:     "Default keeps input order",
			order:    SortDefault,
			expected: codes(products),
		},
		{
			name:     "Price ascending, malformed price as zero",
			order:    SortPriceAsc,
			expected: []string{"BAD-1", "83-C01", "GC-803", "83-A12", "SOFA-3S", "CT-REC-240", "22-FB03"},
		},
		{
			name:     "Price descending",
			order:    SortPriceDesc,
			expected: []string{"22-FB03", "CT-REC-240", "SOFA-3S", "83-A12", "GC-803", "83-C01", "BAD-1"},
		},
		{
			name:     "Name ascending",
			order:    SortNameAsc,
			expected: []string{"GC-803", "83-A12", "22-FB03", "BAD-1", "CT-REC-240", "SOFA-3S", "83-C01"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, codes(Sort(products, tc.order)))
		})
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	products := fixtureCatalog()
	before := codes(products)

	_ = Sort(products, SortPriceDesc)

	assert.Equal(t, before, codes(products))
}

func TestSortIsStable(t *testing.T) {
	products := []Product{
		NewProduct("A", "Alpha", "", "", "", "100", nil),
		NewProduct("B", "Beta", "", "", "", "50", nil),
		NewProduct("C", "Gamma", "", "", "", "100", nil),
		NewProduct("D", "Delta", "", "", "", "oops", nil),
		NewProduct("E", "Epsilon", "", "", "", "0", nil),
	}

	assert.Equal(t, []string{"D", "E", "B", "A", "C"}, codes(Sort(products, SortPriceAsc)))
	assert.Equal(t, []string{"A", "C", "B", "D", "E"}, codes(Sort(products, SortPriceDesc)))
}

func TestSortNameUsesCollation(t *testing.T) {
	products := []Product{
		{Code: "1", Name: "apple"},
		{Code: "2", Name: "zebra"},
		{Code: "3", Name: "Éclair"},
		{Code: "4", Name: "Banana"},
	}

	assert.Equal(t, []string{"apple", "Banana", "Éclair", "zebra"}, names(Sort(products, SortNameAsc)))
}

func TestSortEmpty(t *testing.T) {
	assert.Equal(t, []Product{}, Sort(nil, SortPriceAsc))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortOrder("price-asc"))
	assert.Equal(t, SortPriceDesc, ParseSortOrder(" PRICE-DESC "))
	assert.Equal(t, SortNameAsc, ParseSortOrder("name-asc"))
	assert.Equal(t, SortDefault, ParseSortOrder(""))
	assert.Equal(t, SortDefault, ParseSortOrder("random"))
}
