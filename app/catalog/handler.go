package catalog

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/obrafurniture/quote-service/app/api"
	"github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/internal/currency"
	"github.com/obrafurniture/quote-service/internal/document"
	pkgerrors "github.com/obrafurniture/quote-service/pkg/errors"
	"github.com/obrafurniture/quote-service/pkg/logger"
	"github.com/obrafurniture/quote-service/pkg/metrics"
)

const (
	defaultLimit        = 10
	maxLimit            = 100
	defaultSuggestLimit = 5
	maxSuggestLimit     = 20
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Product struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Dimensions     string  `json:"dimensions"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	DisplayPrice   string  `json:"display_price"`
	PriceAvailable bool    `json:"price_available"`
	Colors         []Color `json:"colors,omitempty"`
}

// ProductProvider is the read side of the catalog index.
type ProductProvider interface {
	All() []catalog.Product
	Query(req catalog.Request) []catalog.Product
	Lookup(code string) (catalog.Product, bool)
	Suggest(query string, limit int) []catalog.Product
}

type CatalogHandler struct {
	catalog      ProductProvider
	logg         *logger.Logger
	metrics      *metrics.QuoteMetrics
	suggestLimit int
}

func NewCatalogHandler(c ProductProvider, logg *logger.Logger, m *metrics.QuoteMetrics, suggestLimit int) *CatalogHandler {
	if suggestLimit <= 0 {
		suggestLimit = defaultSuggestLimit
	}
	return &CatalogHandler{
		catalog:      c,
		logg:         logg,
		metrics:      m,
		suggestLimit: suggestLimit,
	}
}

func toProduct(p catalog.Product, code currency.Code) Product {
	out := Product{
		Code:           p.Code,
		Name:           p.Name,
		Category:       p.Category,
		Dimensions:     p.Dimensions,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		DisplayPrice:   currency.Format(p.Price, code),
		PriceAvailable: p.PriceValid,
	}
	for _, c := range p.Colors {
		out.Colors = append(out.Colors, Color{Name: c.Name, Value: c.Value})
	}
	return out
}

// displayCurrency reads the optional currency query parameter.
func displayCurrency(r *http.Request) (currency.Code, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("currency"))
	if raw == "" {
		return currency.Base, nil
	}
	c, ok := currency.Lookup(raw)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown currency").
			WithDetails(map[string]any{"currency": raw, "supported": currency.Codes()})
	}
	return c.Code, nil
}

// multiValue collects repeated and comma separated query values. "all" means
// no filter.
func multiValue(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" || strings.EqualFold(v, "all") {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := api.QueryInt(r, "offset", 0, 0, math.MaxInt)
	limit := api.QueryInt(r, "limit", defaultLimit, 1, maxLimit)

	code, err := displayCurrency(r)
	if err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}

	res := h.catalog.Query(catalog.Request{
		Text:       r.URL.Query().Get("q"),
		Categories: multiValue(r, "category"),
		BandIDs:    multiValue(r, "price_band"),
		Sort:       catalog.ParseSortOrder(r.URL.Query().Get("sort")),
	})
	h.metrics.IncQuery("search")

	total := len(res)
	start := min(offset, total)
	end := min(start+limit, total)

	products := make([]Product, 0, end-start)
	for _, p := range res[start:end] {
		products = append(products, toProduct(p, code))
	}

	api.WriteOK(w, Response{
		Total:    total,
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	display, err := displayCurrency(r)
	if err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}

	product, ok := h.catalog.Lookup(code)
	if !ok {
		api.WriteError(r.Context(), h.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"code": code}))
		return
	}
	h.metrics.IncQuery("lookup")

	api.WriteOK(w, toProduct(product, display))
}

// HandleSuggest serves autocomplete: the best matches for q, capped by limit.
func (h *CatalogHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	limit := api.QueryInt(r, "limit", h.suggestLimit, 1, maxSuggestLimit)

	code, err := displayCurrency(r)
	if err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}

	res := h.catalog.Suggest(r.URL.Query().Get("q"), limit)
	h.metrics.IncQuery("suggest")

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p, code)
	}
	api.WriteOK(w, Response{Total: len(products), Products: products})
}

// HandleCatalogPDF renders the full price list.
func (h *CatalogHandler) HandleCatalogPDF(w http.ResponseWriter, r *http.Request) {
	code, err := displayCurrency(r)
	if err != nil {
		api.WriteError(r.Context(), h.logg, w, err)
		return
	}

	var buf bytes.Buffer
	if err := document.RenderCatalog(&buf, h.catalog.All(), code); err != nil {
		api.WriteError(r.Context(), h.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render catalog"))
		return
	}
	h.metrics.IncQuery("pdf")

	filename := fmt.Sprintf("OBRA-Product-Catalog-%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}
