package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Abdulla-Zaid/GulfLimo/internal/models"
)

// NumberAllocator reserves invoice numbers from a per-prefix sequence
// row. The increment runs inside the caller's transaction, so two
// concurrent creations serialize on the row and can never observe the
// same value. This replaces counting existing invoices, which handed
// out duplicates under concurrency.
type NumberAllocator struct {
	prefix string
}

func NewNumberAllocator(prefix string) *NumberAllocator {
	return &NumberAllocator{prefix: prefix}
}

// Ensure creates the sequence row if it does not exist yet. Called
// outside the allocation transaction so a lost creation race cannot
// poison it. A duplicate-key failure here means another request won
// the race, which is fine.
func (a *NumberAllocator) Ensure(db *gorm.DB) error {
	var seq models.InvoiceSequence
	err := db.Where("prefix = ?", a.prefix).First(&seq).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	createErr := db.Create(&models.InvoiceSequence{Prefix: a.prefix, Value: 0}).Error
	if createErr != nil && !isUniqueViolation(createErr) {
		return createErr
	}
	return nil
}

// Next atomically increments the sequence within tx and returns the
// formatted invoice number. The UPDATE takes a row lock, blocking
// concurrent allocators until tx commits or rolls back.
func (a *NumberAllocator) Next(tx *gorm.DB) (string, error) {
	res := tx.Model(&models.InvoiceSequence{}).
		Where("prefix = ?", a.prefix).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", errors.New("invoice sequence row missing for prefix " + a.prefix)
	}
	var seq models.InvoiceSequence
	if err := tx.Where("prefix = ?", a.prefix).First(&seq).Error; err != nil {
		return "", err
	}
	return models.FormatNumber(a.prefix, seq.Value), nil
}
