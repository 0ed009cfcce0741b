package document

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/internal/currency"
	"github.com/obrafurniture/quote-service/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		catalog.NewProduct("83-A12", "Ergonomic Mesh Chair", "Office Chairs", "W60 x D60 x H110cm", "", "9,800", []catalog.ColorVariant{
			{Name: "Black", Value: "#000000"},
		}),
		catalog.NewProduct("CT-REC-240", "Rectangular Conference Table for Twelve People With Cable Tray", "Conference Tables", "L240 x W120 x H75cm", "", "21,778", nil),
		catalog.NewProduct("BAD-1", "Mystery Stool", "Storage", "-", "", "TBD", nil),
	}
}

func sampleSnapshot(t *testing.T) quote.Snapshot {
	t.Helper()
	ix := catalog.NewIndex(sampleProducts())
	e := quote.NewEngine(ix)
	e.MergeItems(context.Background(), []quote.MergeItem{
		{ProductCode: "83-A12", Quantity: 2},
		{ProductCode: "CT-REC-240", Quantity: 1},
	})
	require.NoError(t, e.SetClientInfo(quote.ClientInfo{Name: "José Rizal", Email: "jose@example.com"}))
	return e.Snapshot()
}

func TestNewQuoteNumber(t *testing.T) {
	at := time.UnixMilli(1718000000123)
	assert.Equal(t, "QTE-1718000000123", NewQuoteNumber(at))
}

func TestRenderQuotation(t *testing.T) {
	testCases := []struct {
		name string
		meta Meta
	}{
		{name: "Defaults", meta: Meta{}},
		{name: "Explicit meta", meta: Meta{
			Number:   "QTE-1",
			IssuedAt: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			Company:  Company{Name: "Test Co", Email: "a@b.c"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := RenderQuotation(&buf, sampleSnapshot(t), tc.meta)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
		})
	}
}

func TestRenderQuotationWithManyLines(t *testing.T) {
	products := make([]catalog.Product, 0, 60)
	items := make([]quote.MergeItem, 0, 60)
	for i := 0; i < 60; i++ {
		code := "SKU-" + string(rune('A'+i%26)) + string(rune('A'+i/26))
		products = append(products, catalog.NewProduct(code, "Chair", "Office Chairs", "-", "", "100", nil))
		items = append(items, quote.MergeItem{ProductCode: code, Quantity: 1})
	}
	e := quote.NewEngine(catalog.NewIndex(products))
	e.MergeItems(context.Background(), items)

	var buf bytes.Buffer
	require.NoError(t, RenderQuotation(&buf, e.Snapshot(), Meta{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderCatalog(t *testing.T) {
	for _, code := range []currency.Code{currency.PHP, currency.USD, currency.EUR} {
		t.Run(string(code), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderCatalog(&buf, sampleProducts(), code))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
		})
	}
}

func TestFitTruncatesLongText(t *testing.T) {
	w := newWriter()
	w.pdf.AddPage()
	w.pdf.SetFont("Helvetica", "", 9)

	short := w.fit("Desk", 40)
	assert.Equal(t, "Desk", short)

	long := w.fit("Rectangular Conference Table for Twelve People With Cable Tray", 30)
	assert.True(t, len(long) < 40)
	assert.Contains(t, long, "...")
}

func TestOrNA(t *testing.T) {
	assert.Equal(t, "N/A", orNA(""))
	assert.Equal(t, "Ana", orNA("Ana"))
}
