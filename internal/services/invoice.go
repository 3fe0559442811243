package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Abdulla-Zaid/GulfLimo/internal/models"
	"github.com/Abdulla-Zaid/GulfLimo/internal/validation"
)

// ErrNotFound is returned when the referenced invoice does not exist.
var ErrNotFound = errors.New("invoice not found")

// ValidationError carries per-field violations back to the form.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Violations))
}

// InvoiceInput is the editable field set of an invoice. Zero dates
// default to today, matching the original form behavior.
type InvoiceInput struct {
	InvoiceDate  time.Time
	DueDate      time.Time
	BillTo       string
	MobileNumber string
}

// ItemInput is one submitted line item, already assembled from the
// form's parallel arrays into a single value object.
type ItemInput struct {
	Description string
	Quantity    *int // nil when the form field was left blank
	Price       decimal.Decimal
}

type InvoiceService struct {
	db        *gorm.DB
	allocator *NumberAllocator
}

func NewInvoiceService(db *gorm.DB, prefix string) *InvoiceService {
	return &InvoiceService{db: db, allocator: NewNumberAllocator(prefix)}
}

// Validate checks invoice fields and item rows as a unit.
func Validate(in InvoiceInput, items []ItemInput) validation.Violations {
	v := make(validation.Violations)
	validation.Required("bill_to", in.BillTo, v)
	validation.Required("mobile_number", in.MobileNumber, v)
	validation.MaxLen("bill_to", in.BillTo, 200, v)
	validation.MaxLen("mobile_number", in.MobileNumber, 20, v)
	for idx, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			// Blank rows are skipped at persistence time, not rejected.
			continue
		}
		if item.Quantity != nil {
			validation.NonNegativeInt(fmt.Sprintf("items[%d].quantity", idx), *item.Quantity, v)
		}
		if item.Price.IsNegative() {
			v[fmt.Sprintf("items[%d].price", idx)] = "must_not_be_negative"
		}
	}
	return v
}

// Create persists a new invoice owned by userID, allocating its number
// and inserting the item rows in one transaction. A duplicate-number
// insert (possible only if numbers were issued outside the allocator)
// is retried once with a freshly allocated number.
func (s *InvoiceService) Create(userID uint, in InvoiceInput, items []ItemInput) (*models.Invoice, error) {
	if v := Validate(in, items); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	if userID == 0 {
		return nil, errors.New("missing creator user id")
	}
	applyDateDefaults(&in)
	if err := s.allocator.Ensure(s.db); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		inv, err := s.tryCreate(userID, in, items)
		if err == nil {
			return inv, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("invoice number conflict persisted after retry: %w", lastErr)
}

func (s *InvoiceService) tryCreate(userID uint, in InvoiceInput, items []ItemInput) (*models.Invoice, error) {
	inv := &models.Invoice{
		InvoiceDate:  in.InvoiceDate,
		DueDate:      in.DueDate,
		BillTo:       in.BillTo,
		MobileNumber: in.MobileNumber,
		CreatedByID:  userID,
	}
	// The allocation commits on its own so a failed insert below does
	// not roll the sequence back; the retry then draws a fresh number
	// instead of colliding with the same one again. Gaps on failure
	// are acceptable, duplicates are not.
	var number string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		n, err := s.allocator.Next(tx)
		number = n
		return err
	})
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		inv.Number = number
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		rows := buildItems(inv.ID, items)
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		inv.Items = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Get loads an invoice with its items and creator.
func (s *InvoiceService) Get(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.Preload("Items").Preload("CreatedBy").First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Update applies field changes and replaces the whole item set in one
// transaction. The invoice number is never touched.
func (s *InvoiceService) Update(id uint, in InvoiceInput, items []ItemInput) (*models.Invoice, error) {
	if v := Validate(in, items); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	applyDateDefaults(&in)

	var inv models.Invoice
	if err := s.db.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"invoice_date":  in.InvoiceDate,
			"due_date":      in.DueDate,
			"bill_to":       in.BillTo,
			"mobile_number": in.MobileNumber,
		}
		if err := tx.Model(&inv).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		rows := buildItems(inv.ID, items)
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		inv.Items = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Search returns invoices whose number or mobile number contains q,
// case-insensitively. An empty query yields no results rather than
// the whole table.
func (s *InvoiceService) Search(q string) ([]models.Invoice, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Invoice{}, nil
	}
	like := "%" + strings.ToLower(q) + "%"
	var invoices []models.Invoice
	err := s.db.
		Where("lower(invoice_number) LIKE ? OR lower(mobile_number) LIKE ?", like, like).
		Preload("Items").
		Order("id DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func applyDateDefaults(in *InvoiceInput) {
	today := time.Now().Truncate(24 * time.Hour)
	if in.InvoiceDate.IsZero() {
		in.InvoiceDate = today
	}
	if in.DueDate.IsZero() {
		in.DueDate = today
	}
}

// buildItems converts submitted rows to persistable items, silently
// dropping rows with a blank description (the form always posts one
// trailing empty row). Quantity defaults to 1 only when none was
// submitted; an explicit 0 is kept.
func buildItems(invoiceID uint, items []ItemInput) []models.InvoiceItem {
	rows := make([]models.InvoiceItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		qty := 1
		if item.Quantity != nil {
			qty = *item.Quantity
		}
		rows = append(rows, models.InvoiceItem{
			InvoiceID:   invoiceID,
			Description: item.Description,
			Quantity:    qty,
			Price:       item.Price,
		})
	}
	return rows
}

// isUniqueViolation matches duplicate-key failures across the sqlite
// and postgres drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
