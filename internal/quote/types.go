package quote

import (
	"strings"

	"github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/internal/currency"
	"github.com/shopspring/decimal"
)

// LineItem is one cart row. Display fields are copied from the catalog when
// the line is created, so later catalog changes never alter an open quote.
type LineItem struct {
	Key         string                `json:"key"`
	ProductCode string                `json:"product_code"`
	Name        string                `json:"name"`
	Category    string                `json:"category"`
	Dimensions  string                `json:"dimensions"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	Quantity    int                   `json:"quantity"`
	Color       *catalog.ColorVariant `json:"color,omitempty"`
}

// LineTotal is UnitPrice × Quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) clone() LineItem {
	if l.Color != nil {
		c := *l.Color
		l.Color = &c
	}
	return l
}

// MaxQuantity caps the quantity of a single cart line.
const MaxQuantity = 10000

var maxPercent = decimal.NewFromInt(100)

// keyEscaper protects the "|" separator inside codes and color names.
var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// VariantKey is the cart identity of a product/color pair: the code alone for
// colorless lines, "code|color" otherwise. Backslashes and "|" inside either
// part are backslash-escaped so distinct pairs never share a key.
func VariantKey(productCode, color string) string {
	code := keyEscaper.Replace(productCode)
	if color == "" {
		return code
	}
	return code + "|" + keyEscaper.Replace(color)
}

type ClientInfo struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// ParseDiscountType accepts "percent"/"%" and "fixed".
func ParseDiscountType(s string) (DiscountType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percent", "%":
		return DiscountPercent, true
	case "fixed":
		return DiscountFixed, true
	default:
		return "", false
	}
}

type Discount struct {
	Amount decimal.Decimal `json:"amount"`
	Type   DiscountType    `json:"type"`
}

// Context is the non-item part of a quote. Amounts are in currency.Base.
type Context struct {
	Client      ClientInfo      `json:"client"`
	Currency    currency.Code   `json:"currency"`
	Discount    Discount        `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

func defaultContext() Context {
	return Context{
		Currency: currency.Base,
		Discount: Discount{Amount: decimal.Zero, Type: DiscountPercent},
	}
}

// Totals are derived from items and context on every read.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	Total          decimal.Decimal `json:"total"`
}

// State is the persisted form of an engine: items plus context.
type State struct {
	Items   []LineItem `json:"items"`
	Context Context    `json:"context"`
}

// MergeItem is one externally supplied cart suggestion.
type MergeItem struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity" validate:"lte=10000"`
	Color       string `json:"color,omitempty"`
}

// Skip reasons reported in MergeResult.
const (
	SkipUnknownProduct  = "unknown_product"
	SkipUnknownColor    = "unknown_color"
	SkipInvalidQuantity = "invalid_quantity"
)

type SkippedItem struct {
	ProductCode string `json:"product_code"`
	Color       string `json:"color,omitempty"`
	Reason      string `json:"reason"`
}

type MergeResult struct {
	Merged  []string      `json:"merged"`
	Skipped []SkippedItem `json:"skipped"`
}
