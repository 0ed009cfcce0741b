// Package currency holds the fixed display-currency table and money formatting.
//
// All catalog prices and quote amounts are kept in the base currency (PHP);
// other currencies only exist at display time.
package currency

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Code string

const (
	PHP Code = "PHP"
	USD Code = "USD"
	EUR Code = "EUR"

	// Base is the currency every stored amount is expressed in.
	Base = PHP
)

// Currency is a display currency with a fixed conversion rate from Base.
type Currency struct {
	Code   Code            `json:"code"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

var table = map[Code]Currency{
	PHP: {Code: PHP, Symbol: "₱", Rate: decimal.NewFromInt(1)},
	USD: {Code: USD, Symbol: "$", Rate: decimal.RequireFromString("0.017")},
	EUR: {Code: EUR, Symbol: "€", Rate: decimal.RequireFromString("0.016")},
}

// Lookup resolves a currency code; matching is case-insensitive.
func Lookup(code string) (Currency, bool) {
	c, ok := table[Code(strings.ToUpper(strings.TrimSpace(code)))]
	return c, ok
}

// Codes lists the supported currency codes, base first.
func Codes() []Code {
	codes := make([]Code, 0, len(table))
	for c := range table {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if codes[i] == Base || codes[j] == Base {
			return codes[i] == Base
		}
		return codes[i] < codes[j]
	})
	return codes
}

// Convert expresses a base-currency amount in code. Unknown codes convert at rate 1.
func Convert(amount decimal.Decimal, code Code) decimal.Decimal {
	c, ok := table[code]
	if !ok {
		return amount
	}
	return amount.Mul(c.Rate)
}

// Format renders a base-currency amount in code as "<symbol> 1,234.56".
func Format(amount decimal.Decimal, code Code) string {
	c, ok := table[code]
	if !ok {
		c = table[Base]
	}
	return c.Symbol + " " + groupFixed2(Convert(amount, c.Code))
}

// FormatCode is Format with the ISO code in place of the symbol.
func FormatCode(amount decimal.Decimal, code Code) string {
	c, ok := table[code]
	if !ok {
		c = table[Base]
	}
	return string(c.Code) + " " + groupFixed2(Convert(amount, c.Code))
}

func groupFixed2(v decimal.Decimal) string {
	rounded := v.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	fixed := rounded.StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.')+1:]

	p := message.NewPrinter(language.English)
	return sign + p.Sprintf("%d", rounded.IntPart()) + "." + frac
}
