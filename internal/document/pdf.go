// Package document renders quotations and the product catalog as PDF.
//
// The core PDF fonts cannot draw the peso sign, so amounts are printed with
// the ISO code ("PHP 1,250.00") instead of the on-screen symbol.
package document

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/internal/currency"
	"github.com/obrafurniture/quote-service/internal/quote"
	"github.com/shopspring/decimal"
)

const (
	pageLeft   = 14.0
	pageRight  = 196.0
	footerFrom = 277.0
	rowHeight  = 7.0
)

// Company is printed in document headers and footers.
type Company struct {
	Name      string
	Addresses []string
	Email     string
	Phone     string
	Social    string
}

var DefaultCompany = Company{
	Name: "OBRA Office Furniture",
	Addresses: []string{
		"Satellite: 12 Santan, Bagbag, Quezon City, PH",
		"Warehouse: Judge Juan Luna, Roosevelt, Quezon City",
	},
	Email:  "obrafurniture@gmail.com",
	Phone:  "+63 915 743 9188",
	Social: "facebook.com/obraofficefurniture",
}

const terms = "1. Prices are valid for 30 days. 2. Delivery is 15-30 working days upon receipt of " +
	"Purchase Order. 3. Warranty: 1 year on parts and services."

// Meta carries the document fields that are not part of the quote itself.
type Meta struct {
	Number   string
	IssuedAt time.Time
	Company  Company
}

// NewQuoteNumber derives a quote number from t, e.g. "QTE-1718000000000".
func NewQuoteNumber(t time.Time) string {
	return fmt.Sprintf("QTE-%d", t.UnixMilli())
}

type column struct {
	title string
	width float64
	align string
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newWriter() *writer {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeft, 12, 210-pageRight)
	pdf.SetAutoPageBreak(true, 25)
	return &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (w *writer) text(x, y float64, s string) {
	w.pdf.Text(x, y, w.tr(s))
}

func (w *writer) textRight(y float64, s string) {
	s = w.tr(s)
	w.pdf.Text(pageRight-w.pdf.GetStringWidth(s), y, s)
}

func (w *writer) textCenter(y float64, s string) {
	s = w.tr(s)
	w.pdf.Text((pageLeft+pageRight-w.pdf.GetStringWidth(s))/2, y, s)
}

// fit shortens s with an ellipsis until it fits in width.
func (w *writer) fit(s string, width float64) string {
	s = w.tr(s)
	if w.pdf.GetStringWidth(s) <= width-2 {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && w.pdf.GetStringWidth(string(r)+"...") > width-2 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (w *writer) table(startY float64, cols []column, rows [][]string) float64 {
	pdf := w.pdf
	pdf.SetXY(pageLeft, startY)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(22, 22, 22)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		pdf.CellFormat(c.width, rowHeight+1, c.title, "", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		if i%2 == 1 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, c := range cols {
			pdf.CellFormat(c.width, rowHeight, w.fit(row[j], c.width), "", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.GetY()
}

func (w *writer) rule(y float64) {
	w.pdf.SetLineWidth(0.2)
	w.pdf.Line(pageLeft, y, pageRight, y)
}

func (w *writer) output(out io.Writer) error {
	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := w.pdf.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RenderQuotation writes the quotation for snap to out.
func RenderQuotation(out io.Writer, snap quote.Snapshot, meta Meta) error {
	if meta.Company.Name == "" {
		meta.Company = DefaultCompany
	}
	if meta.IssuedAt.IsZero() {
		meta.IssuedAt = time.Now()
	}
	if meta.Number == "" {
		meta.Number = NewQuoteNumber(meta.IssuedAt)
	}
	money := func(d decimal.Decimal) string { return currency.FormatCode(d, snap.Currency.Code) }

	w := newWriter()
	pdf := w.pdf
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 9)
	w.textRight(15, meta.Company.Name)
	pdf.SetFont("Helvetica", "", 9)
	y := 20.0
	for _, line := range append(append([]string(nil), meta.Company.Addresses...),
		"Email: "+meta.Company.Email,
		"Viber/WhatsApp: "+meta.Company.Phone,
		"FB: "+meta.Company.Social,
	) {
		w.textRight(y, line)
		y += 5
	}

	pdf.SetFont("Helvetica", "B", 22)
	w.text(pageLeft, 50, "QUOTATION")

	pdf.SetFont("Helvetica", "", 10)
	w.text(pageLeft, 60, "Quote #: "+meta.Number)
	w.text(pageLeft, 65, "Date: "+meta.IssuedAt.Format("1/2/2006"))

	pdf.SetFont("Helvetica", "B", 10)
	w.text(130, 60, "Bill To:")
	pdf.SetFont("Helvetica", "", 10)
	for i, v := range []string{snap.Client.Name, snap.Client.Company, snap.Client.Contact, snap.Client.Email} {
		w.text(130, 65+float64(i)*5, orNA(v))
	}

	cols := []column{
		{"SKU", 28, "L"},
		{"Product Name", 76, "L"},
		{"Qty", 16, "C"},
		{"Unit Price", 33, "R"},
		{"Total", 29, "R"},
	}
	rows := make([][]string, 0, len(snap.Items))
	for _, it := range snap.Items {
		name := it.Name
		if it.VariantName != "" {
			name += " (" + it.VariantName + ")"
		}
		rows = append(rows, []string{it.Code, name, fmt.Sprint(it.Quantity), money(it.UnitPrice), money(it.LineTotal)})
	}
	y = w.table(90, cols, rows) + 10
	if y > footerFrom-40 {
		pdf.AddPage()
		y = 20
	}

	t := snap.Totals
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range [][2]string{
		{"Subtotal:", money(t.Subtotal)},
		{"Discount:", "-" + money(t.DiscountAmount)},
		{"Subtotal Less Discount:", money(t.Subtotal.Sub(t.DiscountAmount))},
		{"Delivery Fee:", money(t.DeliveryFee)},
	} {
		w.text(130, y, row[0])
		w.textRight(y, row[1])
		y += 5
	}
	pdf.SetFont("Helvetica", "B", 10)
	w.text(130, y, "Total:")
	w.textRight(y, money(t.Total))

	pdf.SetAutoPageBreak(false, 0)
	w.rule(footerFrom)
	pdf.SetFont("Helvetica", "", 8)
	w.text(pageLeft, footerFrom+8, "Terms & Conditions:")
	pdf.SetXY(pageLeft, footerFrom+10)
	pdf.MultiCell(120, 4, w.tr(terms), "", "L", false)
	pdf.SetFont("Helvetica", "B", 8)
	w.textRight(footerFrom+8, "Thank you for your business!")

	return w.output(out)
}

// RenderCatalog writes a price list of products in the given display
// currency. Products with an unusable source price are listed as "Price on
// request".
func RenderCatalog(out io.Writer, products []catalog.Product, code currency.Code) error {
	return renderCatalog(out, products, code, DefaultCompany, time.Now())
}

func renderCatalog(out io.Writer, products []catalog.Product, code currency.Code, company Company, at time.Time) error {
	w := newWriter()
	pdf := w.pdf
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	w.text(pageLeft, 20, company.Name)
	pdf.SetFont("Helvetica", "B", 16)
	w.textRight(20, "Product Catalog")

	cols := []column{
		{"SKU", 26, "L"},
		{"Product Name", 58, "L"},
		{"Category", 36, "L"},
		{"Dimensions", 34, "L"},
		{"Price", 28, "R"},
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		price := "Price on request"
		if p.PriceValid {
			price = currency.FormatCode(p.Price, code)
		}
		rows = append(rows, []string{p.Code, p.Name, p.Category, p.Dimensions, price})
	}
	w.table(40, cols, rows)

	pageCount := pdf.PageCount()
	for page := 1; page <= pageCount; page++ {
		pdf.SetPage(page)
		w.rule(footerFrom)
		pdf.SetFont("Helvetica", "", 8)
		w.textCenter(footerFrom+8, fmt.Sprintf("%s | %s | %s | %s", company.Name, company.Email, company.Phone, company.Social))
		w.textCenter(footerFrom+12, "Catalog generated on: "+at.Format("1/2/2006"))
	}

	return w.output(out)
}
