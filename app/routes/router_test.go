package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/obrafurniture/quote-service/app/health"
	catalogindex "github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/internal/session"
	"github.com/obrafurniture/quote-service/models"
	"github.com/obrafurniture/quote-service/pkg/config"
	"github.com/obrafurniture/quote-service/pkg/logger"
	"github.com/obrafurniture/quote-service/pkg/metrics"
	pkgredis "github.com/obrafurniture/quote-service/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	redisClient := pkgredis.Wrap(raw)

	products := make([]catalogindex.Product, 0)
	for _, p := range models.DefaultProducts() {
		products = append(products, p.ToCatalog())
	}
	index := catalogindex.NewIndex(products)

	reg := prometheus.NewRegistry()
	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		Catalog: config.CatalogConfig{SuggestLimit: 5, SearchThreshold: 0.4},
	}
	handler := NewRouter(cfg, logger.Nop(), index,
		session.NewStore(redisClient, time.Hour, logger.Nop()),
		metrics.NewQuoteMetrics(reg), reg,
		map[string]health.Pinger{"redis": redisClient},
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestCatalogRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/catalog?q=table&sort=price-desc", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Total    int `json:"total"`
		Products []struct {
			Code  string  `json:"code"`
			Price float64 `json:"price"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.NotZero(t, list.Total)
	for i := 1; i < len(list.Products); i++ {
		assert.GreaterOrEqual(t, list.Products[i-1].Price, list.Products[i].Price)
	}

	resp, _ = do(t, srv, http.MethodGet, "/catalog/"+url.PathEscape("22-FB03-EGC WHT 1.6m"), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/catalog/suggest?q=sofa", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/catalog.pdf", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, _ = do(t, srv, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/price-bands", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQuoteLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/quotes", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	base := "/quotes/" + created.ID

	resp, _ = do(t, srv, http.MethodGet, base+"/pdf", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, base+"/items", `{"product_code":"83-C01","quantity":2,"color":"Blue"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, base+"/merge", `{"items":[{"product_code":"gc-803","quantity":3},{"product_code":"ZZZ","quantity":1}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var merged struct {
		Skipped []struct {
			ProductCode string `json:"product_code"`
			Reason      string `json:"reason"`
		} `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(body, &merged))
	require.Len(t, merged.Skipped, 1)
	assert.Equal(t, "unknown_product", merged.Skipped[0].Reason)

	resp, _ = do(t, srv, http.MethodPatch, base+"/items/"+url.PathEscape("83-C01|Blue"), `{"delta":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPut, base+"/context", `{"discount":{"amount":1000,"type":"fixed"},"delivery_fee":500}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		Display struct {
			Total string `json:"total"`
		} `json:"display"`
	}
	require.NoError(t, json.Unmarshal(body, &view))
	// 3 x 3200 + 3 x 4500 - 1000 + 500
	assert.Equal(t, "₱ 22,600.00", view.Display.Total)

	resp, body = do(t, srv, http.MethodGet, base+"/pdf", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `quote_unresolved_items_total{reason="unknown_product"} 1`)

	resp, _ = do(t, srv, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
