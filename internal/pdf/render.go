package pdf

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Abdulla-Zaid/GulfLimo/internal/models"
)

// DocumentRenderer turns an invoice into the standalone HTML document
// fed to the conversion engine.
type DocumentRenderer struct {
	templatePath string

	once sync.Once
	tpl  *template.Template
	err  error
}

func NewDocumentRenderer(templatePath string) *DocumentRenderer {
	return &DocumentRenderer{templatePath: templatePath}
}

type documentData struct {
	Invoice *models.Invoice
	// Data URIs; empty when the asset file is missing.
	LogoURI       template.URL
	BackgroundURI template.URL
}

func (r *DocumentRenderer) load() {
	r.tpl, r.err = template.New("invoice_pdf.html").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"date":  func(t interface{ Format(string) string }) string { return t.Format("02 Jan 2006") },
	}).ParseFiles(r.templatePath)
}

// RenderHTML executes the document template. The data URIs are marked
// template.URL so html/template does not reject the data: scheme.
func (r *DocumentRenderer) RenderHTML(inv *models.Invoice, logoURI, backgroundURI string) (string, error) {
	r.once.Do(r.load)
	if r.err != nil {
		return "", r.err
	}
	var buf bytes.Buffer
	data := documentData{
		Invoice:       inv,
		LogoURI:       template.URL(logoURI),
		BackgroundURI: template.URL(backgroundURI),
	}
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
