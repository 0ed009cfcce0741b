// Package quote exposes quotation sessions over HTTP. Every mutation loads
// the session, applies one engine operation and persists the result
// atomically.
package quote

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/obrafurniture/quote-service/app/api"
	"github.com/obrafurniture/quote-service/internal/document"
	"github.com/obrafurniture/quote-service/internal/quote"
	pkgerrors "github.com/obrafurniture/quote-service/pkg/errors"
	"github.com/obrafurniture/quote-service/pkg/logger"
	"github.com/obrafurniture/quote-service/pkg/metrics"
	"github.com/shopspring/decimal"
)

// SessionStore persists quote state between requests.
type SessionStore interface {
	Create(ctx context.Context, state quote.State) (string, error)
	Load(ctx context.Context, id string) (quote.State, error)
	Update(ctx context.Context, id string, fn func(*quote.State) error) (quote.State, error)
	Delete(ctx context.Context, id string) error
}

type QuoteHandler struct {
	store   SessionStore
	catalog quote.Resolver
	logg    *logger.Logger
	metrics *metrics.QuoteMetrics
	now     func() time.Time
}

func NewQuoteHandler(store SessionStore, c quote.Resolver, logg *logger.Logger, m *metrics.QuoteMetrics) *QuoteHandler {
	if logg == nil {
		logg = logger.Nop()
	}
	return &QuoteHandler{
		store:   store,
		catalog: c,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}
}

// --- Responses ---

type DisplayLine struct {
	Key       string `json:"key"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// Display holds amounts formatted in the quote's display currency.
type Display struct {
	Items                []DisplayLine `json:"items"`
	Subtotal             string        `json:"subtotal"`
	Discount             string        `json:"discount"`
	SubtotalLessDiscount string        `json:"subtotal_less_discount"`
	DeliveryFee          string        `json:"delivery_fee"`
	Total                string        `json:"total"`
}

type QuoteResponse struct {
	ID       string         `json:"id"`
	Snapshot quote.Snapshot `json:"snapshot"`
	Display  Display        `json:"display"`
}

type MergeResponse struct {
	QuoteResponse
	Merged  []string            `json:"merged"`
	Skipped []quote.SkippedItem `json:"skipped"`
}

func newQuoteResponse(id string, e *quote.Engine) QuoteResponse {
	snap := e.Snapshot()
	t := snap.Totals
	display := Display{
		Items:                make([]DisplayLine, len(snap.Items)),
		Subtotal:             snap.Format(t.Subtotal),
		Discount:             snap.Format(t.DiscountAmount),
		SubtotalLessDiscount: snap.Format(t.Subtotal.Sub(t.DiscountAmount)),
		DeliveryFee:          snap.Format(t.DeliveryFee),
		Total:                snap.Format(t.Total),
	}
	for i, it := range snap.Items {
		display.Items[i] = DisplayLine{
			Key:       it.Key,
			UnitPrice: snap.Format(it.UnitPrice),
			LineTotal: snap.Format(it.LineTotal),
		}
	}
	return QuoteResponse{ID: id, Snapshot: snap, Display: display}
}

// --- Requests ---

type AddItemRequest struct {
	ProductCode string `json:"product_code" validate:"required"`
	Quantity    int    `json:"quantity" validate:"lte=10000"`
	Color       string `json:"color"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=10000"`
}

type AdjustQuantityRequest struct {
	Delta *int `json:"delta" validate:"required,gte=-10000,lte=10000"`
}

type MergeRequest struct {
	Items   []quote.MergeItem `json:"items" validate:"dive"`
	Replace bool              `json:"replace"`
}

type DiscountRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type" validate:"required"`
}

// ContextRequest updates any subset of the quote context. Absent fields are
// left as they are.
type ContextRequest struct {
	Client      *quote.ClientInfo `json:"client"`
	Currency    *string           `json:"currency"`
	Discount    *DiscountRequest  `json:"discount"`
	DeliveryFee *decimal.Decimal  `json:"delivery_fee"`
}

// --- Helpers ---

func (h *QuoteHandler) engine(state quote.State) *quote.Engine {
	return quote.NewEngine(h.catalog,
		quote.WithState(state),
		quote.WithLogger(h.logg),
		quote.WithMetrics(h.metrics),
	)
}

// mutate applies fn to the stored quote and writes the resulting view.
func (h *QuoteHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, e *quote.Engine) error) {
	id := r.PathValue("id")
	ctx := h.logg.WithQuoteID(r.Context(), id)

	var e *quote.Engine
	_, err := h.store.Update(ctx, id, func(s *quote.State) error {
		e = h.engine(*s)
		if err := fn(ctx, e); err != nil {
			return err
		}
		*s = e.State()
		return nil
	})
	if err != nil {
		api.WriteError(ctx, h.logg, w, err)
		return
	}
	api.WriteOK(w, newQuoteResponse(id, e))
}

func itemNotFound(key string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "item not in quote").WithDetails(map[string]any{"key": key})
}

// --- Handlers ---

func (h *QuoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	e := quote.NewEngine(h.catalog)
	id, err := h.store.Create(r.Context(), e.State())
	if err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, newQuoteResponse(id, e))
}

func (h *QuoteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state, err := h.store.Load(r.Context(), id)
	if err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}
	api.WriteOK(w, newQuoteResponse(id, h.engine(state)))
}

func (h *QuoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuoteHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := api.DecodeJSONBody(r, &req); err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}
	product, ok := h.catalog.Lookup(req.ProductCode)
	if !ok {
		api.WriteError(r.Context(), h.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_code": req.ProductCode}))
		return
	}
	h.mutate(w, r, func(_ context.Context, e *quote.Engine) error {
		_, err := e.AddItem(product, req.Quantity, req.Color)
		return err
	})
}

func (h *QuoteHandler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := api.DecodeJSONBody(r, &req); err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}
	key := r.PathValue("key")
	h.mutate(w, r, func(_ context.Context, e *quote.Engine) error {
		if !e.SetQuantity(key, *req.Quantity) {
			return itemNotFound(key)
		}
		return nil
	})
}

func (h *QuoteHandler) HandleAdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req AdjustQuantityRequest
	if err := api.DecodeJSONBody(r, &req); err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}
	key := r.PathValue("key")
	h.mutate(w, r, func(_ context.Context, e *quote.Engine) error {
		if !e.AdjustQuantity(key, *req.Delta) {
			return itemNotFound(key)
		}
		return nil
	})
}

func (h *QuoteHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	h.mutate(w, r, func(_ context.Context, e *quote.Engine) error {
		if !e.RemoveItem(key) {
			return itemNotFound(key)
		}
		return nil
	})
}

func (h *QuoteHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(_ context.Context, e *quote.Engine) error {
		e.Clear()
		return nil
	})
}

// HandleMerge bulk-adds externally suggested items. Entries that do not
// resolve are reported in the response and never fail the request.
func (h *QuoteHandler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if err := api.DecodeJSONBody(r, &req); err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}

	id := r.PathValue("id")
	ctx := h.logg.WithQuoteID(r.Context(), id)

	var (
		e      *quote.Engine
		result quote.MergeResult
	)
	_, err := h.store.Update(ctx, id, func(s *quote.State) error {
		e = h.engine(*s)
		if req.Replace {
			result = e.ReplaceItems(ctx, req.Items)
		} else {
			result = e.MergeItems(ctx, req.Items)
		}
		*s = e.State()
		return nil
	})
	if err != nil {
		api.WriteError(ctx, h.logg, w, err)
		return
	}
	api.WriteOK(w, MergeResponse{
		QuoteResponse: newQuoteResponse(id, e),
		Merged:        result.Merged,
		Skipped:       result.Skipped,
	})
}

// HandleSetContext applies every supplied setter or none of them.
func (h *QuoteHandler) HandleSetContext(w http.ResponseWriter, r *http.Request) {
	var req ContextRequest
	if err := api.DecodeJSONBody(r, &req); err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}
	h.mutate(w, r, func(_ context.Context, e *quote.Engine) error {
		if req.Client != nil {
			if err := e.SetClientInfo(*req.Client); err != nil {
				return err
			}
		}
		if req.Currency != nil {
			if err := e.SetCurrency(*req.Currency); err != nil {
				return err
			}
		}
		if req.Discount != nil {
			t, ok := quote.ParseDiscountType(req.Discount.Type)
			if !ok {
				t = quote.DiscountType(req.Discount.Type)
			}
			if err := e.SetDiscount(req.Discount.Amount, t); err != nil {
				return err
			}
		}
		if req.DeliveryFee != nil {
			if err := e.SetDeliveryFee(*req.DeliveryFee); err != nil {
				return err
			}
		}
		return nil
	})
}

// HandlePDF renders the quotation. An empty cart cannot be exported.
func (h *QuoteHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := h.logg.WithQuoteID(r.Context(), id)

	state, err := h.store.Load(ctx, id)
	if err != nil {
		api.WriteError(ctx, h.logg, w, err)
		return
	}
	e := h.engine(state)
	if e.IsEmpty() {
		api.WriteError(ctx, h.logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "quote has no items").
			WithDetails(map[string]any{"id": id}))
		return
	}

	issued := h.now()
	meta := document.Meta{Number: document.NewQuoteNumber(issued), IssuedAt: issued}

	var buf bytes.Buffer
	if err := document.RenderQuotation(&buf, e.Snapshot(), meta); err != nil {
		api.WriteError(ctx, h.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render quotation"))
		return
	}
	h.logg.Info(h.logg.WithField(ctx, "quote_number", meta.Number), "quote.pdf.rendered")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "Quotation-"+meta.Number+".pdf"))
	_, _ = w.Write(buf.Bytes())
}
