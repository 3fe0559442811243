package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a billing invoice for a client.
type Invoice struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	// Number is assigned exactly once at creation and never changes.
	Number string `gorm:"column:invoice_number;size:50;uniqueIndex;not null"`

	InvoiceDate time.Time `gorm:"not null"`
	DueDate     time.Time `gorm:"not null"`

	BillTo       string `gorm:"size:200;not null"`
	MobileNumber string `gorm:"size:20;not null"`

	// CreatedByID is the user who created the invoice (immutable).
	CreatedByID uint `gorm:"index;not null"`
	CreatedBy   User `gorm:"foreignKey:CreatedByID"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TotalAmount sums the line totals of all items. Computed, never stored.
func (i *Invoice) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range i.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (i *Invoice) String() string {
	return i.Number
}

// InvoiceItem is one billable line on an invoice.
type InvoiceItem struct {
	ID        uint `gorm:"primaryKey"`
	InvoiceID uint `gorm:"index;not null"`

	Description string          `gorm:"size:200;not null"`
	// No column default: the service applies the quantity default, and
	// a default tag would make gorm drop an explicit zero on insert.
	Quantity int             `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// LineTotal is quantity times unit price.
func (item *InvoiceItem) LineTotal() decimal.Decimal {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// InvoiceSequence holds the last issued sequence value per number
// prefix. Incremented inside the same transaction that inserts the
// invoice so concurrent creations cannot observe the same value.
type InvoiceSequence struct {
	ID     uint   `gorm:"primaryKey"`
	Prefix string `gorm:"size:10;uniqueIndex;not null"`
	Value  int64  `gorm:"not null"`
}

// FormatNumber renders a sequence value as an invoice number, e.g.
// FormatNumber("GL", 7) == "GL000007". Values past 999999 keep their
// full width rather than being truncated.
func FormatNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s%06d", prefix, seq)
}
