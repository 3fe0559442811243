package pdf

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Abdulla-Zaid/GulfLimo/internal/models"
)

func TestDataURI(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(p, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	uri, err := DataURI(p, "image/png")
	if err != nil {
		t.Fatalf("DataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %q", uri)
	}
	if uri != "data:image/png;base64,iVBORw==" {
		t.Fatalf("unexpected encoding: %q", uri)
	}
}

func TestDataURIMissingFile(t *testing.T) {
	_, err := DataURI(filepath.Join(t.TempDir(), "absent.jpg"), "image/jpeg")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func testInvoice() *models.Invoice {
	return &models.Invoice{
		Number:       "GL000007",
		InvoiceDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		BillTo:       "Al Majid Trading",
		MobileNumber: "0501234567",
		Items: []models.InvoiceItem{
			{Description: "Airport transfer", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{Description: "Waiting time", Quantity: 1, Price: decimal.RequireFromString("5.50")},
		},
	}
}

func writeDocTemplate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "invoice_pdf.html")
	doc := `<!doctype html><html><body>
{{if .BackgroundURI}}<div style="background-image:url('{{.BackgroundURI}}')">{{end}}
{{if .LogoURI}}<img src="{{.LogoURI}}">{{end}}
<h1>{{.Invoice.Number}}</h1>
<p>{{.Invoice.BillTo}} / {{.Invoice.MobileNumber}}</p>
{{range .Invoice.Items}}<tr><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{money .LineTotal}}</td></tr>{{end}}
<b>{{money .Invoice.TotalAmount}}</b>
{{if .BackgroundURI}}</div>{{end}}
</body></html>`
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return p
}

func TestRenderHTML(t *testing.T) {
	r := NewDocumentRenderer(writeDocTemplate(t))
	html, err := r.RenderHTML(testInvoice(), "data:image/png;base64,AAAA", "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"GL000007",
		"Al Majid Trading",
		"25.50",
		"20.00",
		`src="data:image/png;base64,AAAA"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered html missing %q", want)
		}
	}
	if strings.Contains(html, "ZgotmplZ") {
		t.Error("data URI was sanitized away")
	}
	if strings.Contains(html, "background-image") {
		t.Error("background block rendered despite missing asset")
	}
}

func TestRenderHTMLMissingTemplate(t *testing.T) {
	r := NewDocumentRenderer(filepath.Join(t.TempDir(), "nope.html"))
	if _, err := r.RenderHTML(testInvoice(), "", ""); err == nil {
		t.Fatal("expected error for missing template")
	}
}
