package quote

import (
	"github.com/obrafurniture/quote-service/internal/currency"
	"github.com/shopspring/decimal"
)

// Snapshot is a fully resolved, catalog-independent view of a quote, handed
// to document generators.
type Snapshot struct {
	Items    []SnapshotItem   `json:"items"`
	Client   ClientInfo       `json:"client"`
	Currency SnapshotCurrency `json:"currency"`
	Discount Discount         `json:"discount"`
	Totals   Totals           `json:"totals"`
}

type SnapshotItem struct {
	Key         string          `json:"key"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Dimensions  string          `json:"dimensions"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	VariantName string          `json:"variant_name,omitempty"`
}

type SnapshotCurrency struct {
	Code   currency.Code   `json:"code"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

// Snapshot captures the current state. Two calls without a mutation in
// between return equal values.
func (e *Engine) Snapshot() Snapshot {
	items := make([]SnapshotItem, len(e.items))
	for i, it := range e.items {
		items[i] = SnapshotItem{
			Key:        it.Key,
			Code:       it.ProductCode,
			Name:       it.Name,
			Dimensions: it.Dimensions,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			LineTotal:  it.LineTotal(),
		}
		if it.Color != nil {
			items[i].VariantName = it.Color.Name
		}
	}

	cur, ok := currency.Lookup(string(e.ctx.Currency))
	if !ok {
		cur, _ = currency.Lookup(string(currency.Base))
	}

	return Snapshot{
		Items:  items,
		Client: e.ctx.Client,
		Currency: SnapshotCurrency{
			Code:   cur.Code,
			Symbol: cur.Symbol,
			Rate:   cur.Rate,
		},
		Discount: e.ctx.Discount,
		Totals:   e.Totals(),
	}
}

// Format renders a base-currency amount in the snapshot's currency.
func (s Snapshot) Format(amount decimal.Decimal) string {
	return currency.Format(amount, s.Currency.Code)
}
