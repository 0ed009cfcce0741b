package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/obrafurniture/quote-service/app/catalog"
	"github.com/obrafurniture/quote-service/app/categories"
	"github.com/obrafurniture/quote-service/app/health"
	"github.com/obrafurniture/quote-service/app/middleware"
	"github.com/obrafurniture/quote-service/app/quote"
	catalogindex "github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/pkg/config"
	"github.com/obrafurniture/quote-service/pkg/logger"
	"github.com/obrafurniture/quote-service/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	index *catalogindex.Index,
	sessions quote.SessionStore,
	quoteMetrics *metrics.QuoteMetrics,
	gatherer prometheus.Gatherer,
	checks map[string]health.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	healthHandler := health.NewHealthHandler(cfg.App.Env, index.Len, checks, logg)
	catalogHandler := catalog.NewCatalogHandler(index, logg, quoteMetrics, cfg.Catalog.SuggestLimit)
	categoryHandler := categories.NewCategoryHandler(index)
	quoteHandler := quote.NewQuoteHandler(sessions, index, logg, quoteMetrics)

	r.Get("/healthz", healthHandler.HandleHealthz)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/catalog", catalogHandler.HandleGet)
	r.Get("/catalog.pdf", catalogHandler.HandleCatalogPDF)
	r.Get("/catalog/suggest", catalogHandler.HandleSuggest)
	r.Get("/catalog/{code}", catalogHandler.HandleGetProduct)
	r.Get("/categories", categoryHandler.HandleGetAll)
	r.Get("/price-bands", categoryHandler.HandleGetPriceBands)

	r.Route("/quotes", func(r chi.Router) {
		r.Post("/", quoteHandler.HandleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", quoteHandler.HandleGet)
			r.Delete("/", quoteHandler.HandleDelete)
			r.Post("/items", quoteHandler.HandleAddItem)
			r.Delete("/items", quoteHandler.HandleClear)
			r.Put("/items/{key}", quoteHandler.HandleSetQuantity)
			r.Patch("/items/{key}", quoteHandler.HandleAdjustQuantity)
			r.Delete("/items/{key}", quoteHandler.HandleRemoveItem)
			r.Post("/merge", quoteHandler.HandleMerge)
			r.Put("/context", quoteHandler.HandleSetContext)
			r.Get("/pdf", quoteHandler.HandlePDF)
		})
	})

	return r
}
