package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
		valid    bool
	}{
		{raw: "21778", expected: "21778", valid: true},
		{raw: " 9999.99 ", expected: "9999.99", valid: true},
		{raw: "21,778", expected: "21778", valid: true},
		{raw: "0", expected: "0", valid: true},
		{raw: "", expected: "0", valid: false},
		{raw: "N/A", expected: "0", valid: false},
		{raw: "-5", expected: "0", valid: false},
		{raw: "NaN", expected: "0", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParsePrice(tc.raw)
			assert.Equal(t, tc.valid, ok)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(got), "got %s", got)
		})
	}
}

func TestNewProductKeepsRawPrice(t *testing.T) {
	p := NewProduct(" SF-210-L ", "Low-Height Steel Filing Cabinet", "Storage", "L90cm", "2 shelves", "abc", nil)

	assert.Equal(t, "SF-210-L", p.Code)
	assert.Equal(t, "abc", p.RawPrice)
	assert.False(t, p.PriceValid)
	assert.True(t, p.Price.IsZero())
	assert.False(t, p.HasColors())
}

func TestProductColor(t *testing.T) {
	p := NewProduct("C", "Chair", "", "", "", "1", []ColorVariant{{Name: "Red", Value: "#f00"}})

	c, ok := p.Color(" red ")
	assert.True(t, ok)
	assert.Equal(t, "Red", c.Name)

	_, ok = p.Color("Blue")
	assert.False(t, ok)
	assert.True(t, p.HasColors())
}
