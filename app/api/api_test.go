package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/obrafurniture/quote-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	testCases := []struct {
		name          string
		err           error
		expectStatus  int
		expectCode    string
		expectMessage string
		expectDetails bool
	}{
		{
			name:          "Validation error keeps message and details",
			err:           pkgerrors.New(pkgerrors.CodeValidation, "bad quantity").WithDetails(map[string]any{"quantity": -1}),
			expectStatus:  http.StatusBadRequest,
			expectCode:    "VALIDATION_ERROR",
			expectMessage: "bad quantity",
			expectDetails: true,
		},
		{
			name:          "Not found",
			err:           pkgerrors.New(pkgerrors.CodeNotFound, "quote not found").WithDetails(map[string]any{"id": "x"}),
			expectStatus:  http.StatusNotFound,
			expectCode:    "NOT_FOUND",
			expectMessage: "quote not found",
		},
		{
			name:          "Untyped error is hidden",
			err:           errors.New("db exploded"),
			expectStatus:  http.StatusInternalServerError,
			expectCode:    "INTERNAL_ERROR",
			expectMessage: "internal server error",
		},
		{
			name:          "Dependency error",
			err:           pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial"), "redis down"),
			expectStatus:  http.StatusServiceUnavailable,
			expectCode:    "DEPENDENCY_ERROR",
			expectMessage: "dependency unavailable",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			WriteError(context.Background(), nil, w, tc.err)

			assert.Equal(t, tc.expectStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.expectCode, body["code"])
			assert.Equal(t, tc.expectMessage, body["error"])
			_, hasDetails := body["details"]
			assert.Equal(t, tc.expectDetails, hasDetails)
		})
	}
}

type addRequest struct {
	ProductCode string `json:"product_code" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func TestDecodeJSONBody(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		expectErr     bool
		expectDetails map[string]any
	}{
		{name: "Valid", body: `{"product_code":"A","quantity":2}`},
		{name: "Malformed JSON", body: `{"product_code":`, expectErr: true},
		{name: "Unknown field", body: `{"product_code":"A","qty":2}`, expectErr: true},
		{
			name:          "Missing required",
			body:          `{"quantity":2}`,
			expectErr:     true,
			expectDetails: map[string]any{"product_code": "is required"},
		},
		{
			name:          "Bad email",
			body:          `{"product_code":"A","email":"nope"}`,
			expectErr:     true,
			expectDetails: map[string]any{"email": "must be a valid email"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dest addRequest

			err := DecodeJSONBody(r, &dest)

			if !tc.expectErr {
				require.NoError(t, err)
				assert.Equal(t, "A", dest.ProductCode)
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
			if tc.expectDetails != nil {
				w := httptest.NewRecorder()
				WriteError(context.Background(), nil, w, err)
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tc.expectDetails, body["details"])
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	testCases := []struct {
		query    string
		expected int
	}{
		{"", 10},
		{"limit=25", 25},
		{"limit=0", 1},
		{"limit=-3", 1},
		{"limit=500", 100},
		{"limit=abc", 10},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/catalog?"+tc.query, nil)
			assert.Equal(t, tc.expected, QueryInt(r, "limit", 10, 1, 100))
		})
	}
}
