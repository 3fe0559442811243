package models

import "time"

// User is an account that can sign in and create invoices.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt hash
	Name      string `gorm:"size:255"`
	CreatedAt time.Time
}
