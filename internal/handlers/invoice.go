package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Abdulla-Zaid/GulfLimo/internal/auth"
	"github.com/Abdulla-Zaid/GulfLimo/internal/models"
	"github.com/Abdulla-Zaid/GulfLimo/internal/pdf"
	"github.com/Abdulla-Zaid/GulfLimo/internal/services"
	"github.com/Abdulla-Zaid/GulfLimo/internal/validation"
	"github.com/Abdulla-Zaid/GulfLimo/internal/view"
)

type InvoiceHandler struct {
	svc      *services.InvoiceService
	engine   pdf.Engine // nil when no conversion backend is available
	renderer *pdf.DocumentRenderer

	logoPath       string
	backgroundPath string
}

func NewInvoiceHandler(svc *services.InvoiceService, engine pdf.Engine, renderer *pdf.DocumentRenderer, logoPath, backgroundPath string) *InvoiceHandler {
	return &InvoiceHandler{
		svc:            svc,
		engine:         engine,
		renderer:       renderer,
		logoPath:       logoPath,
		backgroundPath: backgroundPath,
	}
}

// New: GET /create/
func (h *InvoiceHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "create_invoice.html", nil)
}

// Create: POST /create/
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	in, items, v := parseInvoiceForm(r)
	if !v.Empty() {
		h.renderForm(w, r, "create_invoice.html", in, items, v, nil)
		return
	}
	inv, err := h.svc.Create(userID, in, items)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.renderForm(w, r, "create_invoice.html", in, items, verr.Violations, nil)
			return
		}
		log.Printf("create invoice: %v", err)
		http.Error(w, "Failed to create invoice", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/invoice/"+strconv.Itoa(int(inv.ID))+"/", http.StatusSeeOther)
}

// Detail: GET /invoice/{id}/
func (h *InvoiceHandler) Detail(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	view.Render(w, r, "invoice_detail.html", map[string]any{"Invoice": inv})
}

// Edit: GET /invoice/{id}/edit/
func (h *InvoiceHandler) Edit(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	view.Render(w, r, "edit_invoice.html", map[string]any{
		"Invoice": inv,
		"Items":   inv.Items,
	})
}

// Update: POST /invoice/{id}/edit/
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	in, items, v := parseInvoiceForm(r)
	if !v.Empty() {
		inv, _ := h.svc.Get(id)
		h.renderForm(w, r, "edit_invoice.html", in, items, v, map[string]any{"Invoice": inv})
		return
	}
	if _, err := h.svc.Update(id, in, items); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			inv, _ := h.svc.Get(id)
			h.renderForm(w, r, "edit_invoice.html", in, items, verr.Violations, map[string]any{"Invoice": inv})
			return
		}
		log.Printf("update invoice %d: %v", id, err)
		http.Error(w, "Failed to update invoice", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/invoice/"+strconv.Itoa(int(id))+"/", http.StatusSeeOther)
}

// Search: GET /search/
func (h *InvoiceHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	invoices, err := h.svc.Search(query)
	if err != nil {
		log.Printf("search %q: %v", query, err)
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "search.html", map[string]any{
		"Invoices": invoices,
		"Query":    query,
	})
}

// PDF: GET /invoice/{id}/pdf/
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}

	html, err := h.renderer.RenderHTML(inv, h.embed(h.logoPath, "image/png"), h.embed(h.backgroundPath, "image/jpeg"))
	if err != nil {
		log.Printf("render invoice %s: %v", inv.Number, err)
		http.Error(w, "Failed to render invoice", http.StatusInternalServerError)
		return
	}

	if h.engine == nil {
		h.diagnostic(w, html, pdf.ErrUnavailable)
		return
	}
	data, err := h.engine.GeneratePDF(r.Context(), html)
	if err != nil {
		log.Printf("convert invoice %s: %v", inv.Number, err)
		h.diagnostic(w, html, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice_"+inv.Number+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// embed returns the asset as a data URI, or "" when the file is
// missing. A missing asset is logged and the document renders without it.
func (h *InvoiceHandler) embed(path, mime string) string {
	uri, err := pdf.DataURI(path, mime)
	if err != nil {
		log.Printf("pdf asset %s: %v", path, err)
		return ""
	}
	return uri
}

// diagnostic serves the rendered markup when conversion is impossible,
// so the document content is still inspectable.
func (h *InvoiceHandler) diagnostic(w http.ResponseWriter, html string, cause error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "<h1>PDF conversion failed: %s</h1><pre>%s</pre>", cause, html)
}

func (h *InvoiceHandler) load(w http.ResponseWriter, r *http.Request) (*models.Invoice, bool) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	inv, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			log.Printf("load invoice %d: %v", id, err)
			http.Error(w, "Failed to load invoice", http.StatusInternalServerError)
		}
		return nil, false
	}
	return inv, true
}

func (h *InvoiceHandler) renderForm(w http.ResponseWriter, r *http.Request, name string, in services.InvoiceInput, items []services.ItemInput, v validation.Violations, extra map[string]any) {
	data := map[string]any{
		"Errors": v,
		"Form":   in,
		"Rows":   items,
	}
	for k, val := range extra {
		data[k] = val
	}
	view.Render(w, r, name, data)
}

func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return uint(id), nil
}

// parseInvoiceForm reads the invoice fields and the repeated item rows
// (description/quantity/price posted as parallel arrays) into a single
// validated slice of row values.
func parseInvoiceForm(r *http.Request) (services.InvoiceInput, []services.ItemInput, validation.Violations) {
	v := make(validation.Violations)
	if err := r.ParseForm(); err != nil {
		v["form"] = "malformed"
		return services.InvoiceInput{}, nil, v
	}

	in := services.InvoiceInput{
		BillTo:       strings.TrimSpace(r.PostForm.Get("bill_to")),
		MobileNumber: strings.TrimSpace(r.PostForm.Get("mobile_number")),
	}
	in.InvoiceDate = parseDate(r.PostForm.Get("invoice_date"), "invoice_date", v)
	in.DueDate = parseDate(r.PostForm.Get("due_date"), "due_date", v)

	descriptions := r.PostForm["description"]
	quantities := r.PostForm["quantity"]
	prices := r.PostForm["price"]

	items := make([]services.ItemInput, 0, len(descriptions))
	for i, desc := range descriptions {
		row := services.ItemInput{Description: strings.TrimSpace(desc)}
		if row.Description == "" {
			// Blank trailing rows come from the dynamic form; dropped later.
			items = append(items, row)
			continue
		}
		if i < len(quantities) && strings.TrimSpace(quantities[i]) != "" {
			qty, err := strconv.Atoi(strings.TrimSpace(quantities[i]))
			if err != nil {
				v[fmt.Sprintf("items[%d].quantity", i)] = "invalid_number"
				continue
			}
			row.Quantity = &qty
		}
		if i < len(prices) && strings.TrimSpace(prices[i]) != "" {
			price, err := decimal.NewFromString(strings.TrimSpace(prices[i]))
			if err != nil {
				v[fmt.Sprintf("items[%d].price", i)] = "invalid_number"
				continue
			}
			row.Price = price
		}
		items = append(items, row)
	}

	for field, code := range services.Validate(in, items) {
		v[field] = code
	}
	return in, items, v
}

func parseDate(value, field string, v validation.Violations) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{} // service defaults to today
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		v[field] = "invalid_date"
		return time.Time{}
	}
	return d
}
