// Package quote owns the cart and quote context of one quotation session and
// derives its totals.
//
// An Engine is not safe for concurrent use. Callers that receive results from
// several asynchronous sources funnel them through MergeItems one call at a
// time; accumulation is commutative, so arrival order never changes totals.
package quote

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/internal/currency"
	"github.com/obrafurniture/quote-service/pkg/logger"
	"github.com/obrafurniture/quote-service/pkg/metrics"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Resolver finds catalog products by code. *catalog.Index satisfies it.
type Resolver interface {
	Lookup(code string) (catalog.Product, bool)
}

type Engine struct {
	resolver Resolver
	logg     *logger.Logger
	metrics  *metrics.QuoteMetrics

	items []LineItem
	ctx   Context
}

type Option func(*Engine)

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.logg = l }
}

func WithMetrics(m *metrics.QuoteMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithState restores a previously persisted State.
func WithState(s State) Option {
	return func(e *Engine) { e.restore(s) }
}

func NewEngine(resolver Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		ctx:      defaultContext(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// restore loads s while re-establishing the cart invariants: quantities in
// [1, MaxQuantity], unique keys and a context the setters would accept.
func (e *Engine) restore(s State) {
	e.items = nil
	for _, it := range s.Items {
		if it.Quantity < 1 {
			continue
		}
		it.Quantity = min(it.Quantity, MaxQuantity)
		if it.Key == "" {
			color := ""
			if it.Color != nil {
				color = it.Color.Name
			}
			it.Key = VariantKey(it.ProductCode, color)
		}
		if i := e.find(it.Key); i >= 0 {
			e.items[i].Quantity = addQuantity(e.items[i].Quantity, it.Quantity)
			continue
		}
		e.items = append(e.items, it.clone())
	}

	e.ctx = s.Context
	if c, ok := currency.Lookup(string(e.ctx.Currency)); ok {
		e.ctx.Currency = c.Code
	} else {
		e.ctx.Currency = currency.Base
	}
	if dt, ok := ParseDiscountType(string(e.ctx.Discount.Type)); ok {
		e.ctx.Discount.Type = dt
	} else {
		e.ctx.Discount.Type = DiscountPercent
	}
	if e.ctx.Discount.Amount.IsNegative() {
		e.ctx.Discount.Amount = decimal.Zero
	}
	if e.ctx.Discount.Type == DiscountPercent && e.ctx.Discount.Amount.GreaterThan(maxPercent) {
		e.ctx.Discount.Amount = maxPercent
	}
	if e.ctx.DeliveryFee.IsNegative() {
		e.ctx.DeliveryFee = decimal.Zero
	}
}

func (e *Engine) find(key string) int {
	for i := range e.items {
		if e.items[i].Key == key {
			return i
		}
	}
	return -1
}

// newLine prepares a line for p. Products with colors pin exactly one
// variant: an empty color selects the first one.
func newLine(p catalog.Product, color string) (LineItem, error) {
	line := LineItem{
		ProductCode: p.Code,
		Name:        p.Name,
		Category:    p.Category,
		Dimensions:  p.Dimensions,
		UnitPrice:   p.Price,
	}
	if p.HasColors() {
		var variant catalog.ColorVariant
		if color == "" {
			variant = p.Colors[0]
		} else {
			var ok bool
			if variant, ok = p.Color(color); !ok {
				return LineItem{}, validationError("unknown color for product", map[string]any{
					"product_code": p.Code,
					"color":        color,
				})
			}
		}
		line.Color = &variant
		line.Key = VariantKey(p.Code, variant.Name)
		return line, nil
	}
	line.Key = VariantKey(p.Code, "")
	return line, nil
}

// addQuantity sums two line quantities, saturating at MaxQuantity. Both
// inputs must already be within [0, MaxQuantity].
func addQuantity(a, b int) int {
	return min(a+b, MaxQuantity)
}

func (e *Engine) accumulate(line LineItem, quantity int) {
	if i := e.find(line.Key); i >= 0 {
		e.items[i].Quantity = addQuantity(e.items[i].Quantity, quantity)
		return
	}
	line.Quantity = quantity
	e.items = append(e.items, line)
}

// AddItem adds quantity of product to the cart and returns the line key.
// Quantities below one are treated as one. An existing line with the same key
// is incremented in place; a line may not grow past MaxQuantity.
func (e *Engine) AddItem(product catalog.Product, quantity int, color string) (string, error) {
	line, err := newLine(product, color)
	if err != nil {
		return "", err
	}
	if quantity < 1 {
		quantity = 1
	}
	current := 0
	if i := e.find(line.Key); i >= 0 {
		current = e.items[i].Quantity
	}
	if quantity > MaxQuantity-current {
		return "", validationError("quantity exceeds the per-line maximum", map[string]any{
			"key":          line.Key,
			"quantity":     quantity,
			"in_cart":      current,
			"max_quantity": MaxQuantity,
		})
	}
	e.accumulate(line, quantity)
	e.metrics.IncMutation("add")
	return line.Key, nil
}

// SetQuantity sets a line's quantity, removing the line when n <= 0 and
// capping it at MaxQuantity. It reports whether the key was in the cart.
func (e *Engine) SetQuantity(key string, n int) bool {
	i := e.find(key)
	if i < 0 {
		return false
	}
	if n <= 0 {
		e.removeAt(i)
	} else {
		e.items[i].Quantity = min(n, MaxQuantity)
	}
	e.metrics.IncMutation("set_quantity")
	return true
}

// AdjustQuantity adds delta to a line's quantity.
func (e *Engine) AdjustQuantity(key string, delta int) bool {
	i := e.find(key)
	if i < 0 {
		return false
	}
	// Current quantities never exceed MaxQuantity, so only large positive
	// deltas can overflow.
	return e.SetQuantity(key, e.items[i].Quantity+min(delta, MaxQuantity))
}

// RemoveItem drops a line. Absent keys are a no-op.
func (e *Engine) RemoveItem(key string) bool {
	i := e.find(key)
	if i < 0 {
		return false
	}
	e.removeAt(i)
	e.metrics.IncMutation("remove")
	return true
}

func (e *Engine) removeAt(i int) {
	e.items = append(e.items[:i], e.items[i+1:]...)
}

// Clear empties the cart. The quote context is kept.
func (e *Engine) Clear() {
	e.items = nil
	e.metrics.IncMutation("clear")
}

// MergeItems bulk-adds externally supplied items. Entries that cannot be
// resolved, or whose quantity is outside [1, MaxQuantity], are skipped and
// reported, never failing the rest. Duplicate keys within items are summed
// before they reach the cart, and every line saturates at MaxQuantity.
func (e *Engine) MergeItems(ctx context.Context, items []MergeItem) MergeResult {
	type pending struct {
		line LineItem
		qty  int
	}
	result := MergeResult{Merged: []string{}, Skipped: []SkippedItem{}}
	var order []string
	acc := map[string]*pending{}

	for _, it := range items {
		if it.Quantity < 1 || it.Quantity > MaxQuantity {
			e.skip(ctx, &result, it, SkipInvalidQuantity)
			continue
		}
		var (
			p  catalog.Product
			ok bool
		)
		if e.resolver != nil {
			p, ok = e.resolver.Lookup(it.ProductCode)
		}
		if !ok {
			e.skip(ctx, &result, it, SkipUnknownProduct)
			continue
		}
		line, err := newLine(p, it.Color)
		if err != nil {
			e.skip(ctx, &result, it, SkipUnknownColor)
			continue
		}
		if pend, seen := acc[line.Key]; seen {
			pend.qty = addQuantity(pend.qty, it.Quantity)
			continue
		}
		acc[line.Key] = &pending{line: line, qty: it.Quantity}
		order = append(order, line.Key)
	}

	for _, key := range order {
		pend := acc[key]
		e.accumulate(pend.line, pend.qty)
		result.Merged = append(result.Merged, key)
	}
	e.metrics.IncMutation("merge")
	return result
}

// ReplaceItems clears the cart and merges items into it.
func (e *Engine) ReplaceItems(ctx context.Context, items []MergeItem) MergeResult {
	e.Clear()
	return e.MergeItems(ctx, items)
}

func (e *Engine) skip(ctx context.Context, result *MergeResult, it MergeItem, reason string) {
	result.Skipped = append(result.Skipped, SkippedItem{
		ProductCode: it.ProductCode,
		Color:       it.Color,
		Reason:      reason,
	})
	e.metrics.IncUnresolved(reason)
	if e.logg != nil {
		ctx = e.logg.WithFields(ctx, map[string]any{
			"product_code": it.ProductCode,
			"quantity":     it.Quantity,
			"color":        it.Color,
			"reason":       reason,
		})
		e.logg.Warn(ctx, "quote.merge.item_skipped")
	}
}

// SetDiscount sets the discount. Amount must be >= 0 and a percent discount
// may not exceed 100.
func (e *Engine) SetDiscount(amount decimal.Decimal, t DiscountType) error {
	if t != DiscountPercent && t != DiscountFixed {
		return validationError("unknown discount type", map[string]any{"type": string(t)})
	}
	if amount.IsNegative() {
		return validationError("discount must not be negative", map[string]any{"amount": amount.String()})
	}
	if t == DiscountPercent && amount.GreaterThan(maxPercent) {
		return validationError("percent discount must not exceed 100", map[string]any{"amount": amount.String()})
	}
	e.ctx.Discount = Discount{Amount: amount, Type: t}
	e.metrics.IncMutation("discount")
	return nil
}

// SetDeliveryFee sets a non-negative delivery fee.
func (e *Engine) SetDeliveryFee(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return validationError("delivery fee must not be negative", map[string]any{"amount": amount.String()})
	}
	e.ctx.DeliveryFee = amount
	e.metrics.IncMutation("delivery_fee")
	return nil
}

// SetCurrency selects the display currency.
func (e *Engine) SetCurrency(code string) error {
	c, ok := currency.Lookup(code)
	if !ok {
		return validationError("unknown currency", map[string]any{"currency": code, "supported": currency.Codes()})
	}
	e.ctx.Currency = c.Code
	e.metrics.IncMutation("currency")
	return nil
}

// SetClientInfo replaces the client block. Values are stored as given; a
// non-empty email must be well formed.
func (e *Engine) SetClientInfo(info ClientInfo) error {
	if err := validate.Var(info.Email, "omitempty,email"); err != nil {
		return validationError("invalid client email", map[string]any{"email": info.Email})
	}
	e.ctx.Client = info
	e.metrics.IncMutation("client")
	return nil
}

func (e *Engine) IsEmpty() bool {
	return len(e.items) == 0
}

// Len is the number of lines, not units.
func (e *Engine) Len() int {
	return len(e.items)
}

// Items returns a copy of the cart in insertion order.
func (e *Engine) Items() []LineItem {
	out := make([]LineItem, len(e.items))
	for i, it := range e.items {
		out[i] = it.clone()
	}
	return out
}

func (e *Engine) Item(key string) (LineItem, bool) {
	i := e.find(key)
	if i < 0 {
		return LineItem{}, false
	}
	return e.items[i].clone(), true
}

// Context returns the current quote context.
func (e *Engine) Context() Context {
	return e.ctx
}

// Totals derives subtotal, discount and total from the current state.
func (e *Engine) Totals() Totals {
	subtotal := decimal.Zero
	for _, it := range e.items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	var discount decimal.Decimal
	switch e.ctx.Discount.Type {
	case DiscountFixed:
		discount = decimal.Min(e.ctx.Discount.Amount, subtotal)
	default:
		discount = subtotal.Mul(e.ctx.Discount.Amount).Shift(-2)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		DeliveryFee:    e.ctx.DeliveryFee,
		Total:          subtotal.Sub(discount).Add(e.ctx.DeliveryFee),
	}
}

// State returns a deep copy suitable for persistence.
func (e *Engine) State() State {
	return State{Items: e.Items(), Context: e.ctx}
}
