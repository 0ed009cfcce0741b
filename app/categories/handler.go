package categories

import (
	"net/http"
	"strings"

	"github.com/obrafurniture/quote-service/app/api"
	"github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/internal/currency"
)

type CategoryResponse struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

type PriceBandResponse struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"`
}

type CategoryProvider interface {
	All() []catalog.Product
	Categories() []string
	Bands() []catalog.PriceBand
}

type CategoryHandler struct {
	catalog CategoryProvider
}

func NewCategoryHandler(c CategoryProvider) *CategoryHandler {
	return &CategoryHandler{catalog: c}
}

// HandleGetAll lists categories in catalog order with their product counts.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	counts := map[string]int{}
	for _, p := range h.catalog.All() {
		counts[strings.ToLower(p.Category)]++
	}

	categories := h.catalog.Categories()
	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			Name:         c,
			ProductCount: counts[strings.ToLower(c)],
		}
	}

	api.WriteOK(w, response)
}

// HandleGetPriceBands lists the price filter bands. Labels are in the base
// currency.
func (h *CategoryHandler) HandleGetPriceBands(w http.ResponseWriter, r *http.Request) {
	bands := h.catalog.Bands()
	response := make([]PriceBandResponse, len(bands))
	for i, b := range bands {
		response[i] = PriceBandResponse{
			ID:    b.ID,
			Label: b.Label,
			Min:   b.Min.InexactFloat64(),
		}
		if b.Max != nil {
			v := b.Max.InexactFloat64()
			response[i].Max = &v
		}
	}
	api.WriteOK(w, struct {
		Currency currency.Code       `json:"currency"`
		Bands    []PriceBandResponse `json:"bands"`
	}{
		Currency: currency.Base,
		Bands:    response,
	})
}
