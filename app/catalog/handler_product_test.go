package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/obrafurniture/quote-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGetProduct(t *testing.T) {
	testCases := []struct {
		name               string
		productCode        string
		query              string
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkCatalogCall   func(t *testing.T, c *MockCatalog)
	}{
		{
			name:               "Product with colors",
			productCode:        "83-C01",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Product
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "83-C01", resp.Code)
				assert.Equal(t, "Office Chairs", resp.Category)
				assert.Equal(t, 3200.0, resp.Price)
				assert.True(t, resp.PriceAvailable)
				assert.Equal(t, []Color{{Name: "Red", Value: "#b22222"}, {Name: "Blue", Value: "#1e3a8a"}}, resp.Colors)
			},
			checkCatalogCall: func(t *testing.T, c *MockCatalog) {
				assert.Equal(t, "83-C01", c.lastLookupCode)
			},
		},
		{
			name:               "Lookup ignores case",
			productCode:        "gc-803",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Product
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "GC-803", resp.Code)
				assert.Empty(t, resp.Colors)
			},
		},
		{
			name:               "Malformed source price",
			productCode:        "BAD-1",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Product
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.False(t, resp.PriceAvailable)
				assert.Equal(t, 0.0, resp.Price)
			},
		},
		{
			name:               "Display currency",
			productCode:        "83-A12",
			query:              "?currency=EUR",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Product
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "€ 140.00", resp.DisplayPrice)
			},
		},
		{
			name:               "Product not found",
			productCode:        "NONEXISTENT",
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var body map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "product not found", body["error"])
				assert.Equal(t, "NOT_FOUND", body["code"])
			},
			checkCatalogCall: func(t *testing.T, c *MockCatalog) {
				assert.Equal(t, "NONEXISTENT", c.lastLookupCode)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mock := newMockCatalog()
			handler := NewCatalogHandler(mock, logger.Nop(), nil, 0)
			req := httptest.NewRequest(http.MethodGet, "/catalog/"+tc.productCode+tc.query, nil)
			req.SetPathValue("code", tc.productCode)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetProduct(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkCatalogCall != nil {
				tc.checkCatalogCall(t, mock)
			}
		})
	}
}
