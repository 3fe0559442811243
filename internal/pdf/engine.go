package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// ErrUnavailable is returned when no conversion backend can be
// constructed (the wkhtmltopdf binary is not installed). Callers fall
// back to serving the rendered markup instead of a binary.
var ErrUnavailable = errors.New("pdf engine unavailable")

// Engine converts rendered HTML into a PDF document.
type Engine interface {
	GeneratePDF(ctx context.Context, html string) ([]byte, error)
}

// WKEngine drives the external wkhtmltopdf converter.
type WKEngine struct{}

// NewWKEngine probes for the wkhtmltopdf binary once at construction so
// unavailability is a typed startup result, not a per-request surprise.
func NewWKEngine() (*WKEngine, error) {
	if _, err := wkhtmltopdf.NewPDFGenerator(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &WKEngine{}, nil
}

func (e *WKEngine) GeneratePDF(ctx context.Context, html string) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(10)
	pdfg.MarginBottom.Set(10)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.EnableLocalFileAccess.Set(false)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
