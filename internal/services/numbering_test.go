package services

import (
	"testing"

	"github.com/Abdulla-Zaid/GulfLimo/internal/models"
)

func TestAllocatorEnsureIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	a := NewNumberAllocator("GL")

	if err := a.Ensure(db); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := a.Ensure(db); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	var count int64
	db.Model(&models.InvoiceSequence{}).Where("prefix = ?", "GL").Count(&count)
	if count != 1 {
		t.Fatalf("sequence rows = %d, want 1", count)
	}
}

func TestAllocatorNextIncrements(t *testing.T) {
	db := setupTestDB(t)
	a := NewNumberAllocator("GL")
	if err := a.Ensure(db); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	for i := 1; i <= 3; i++ {
		got, err := a.Next(db)
		if err != nil {
			t.Fatalf("next #%d: %v", i, err)
		}
		want := models.FormatNumber("GL", int64(i))
		if got != want {
			t.Errorf("next #%d = %q, want %q", i, got, want)
		}
	}
}

func TestAllocatorNextFailsWithoutRow(t *testing.T) {
	db := setupTestDB(t)
	a := NewNumberAllocator("GL")
	if _, err := a.Next(db); err == nil {
		t.Fatal("expected error when sequence row missing")
	}
}

func TestAllocatorsWithDistinctPrefixesAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	gl := NewNumberAllocator("GL")
	inv := NewNumberAllocator("INV")
	if err := gl.Ensure(db); err != nil {
		t.Fatalf("ensure gl: %v", err)
	}
	if err := inv.Ensure(db); err != nil {
		t.Fatalf("ensure inv: %v", err)
	}

	if got, _ := gl.Next(db); got != "GL000001" {
		t.Fatalf("gl next = %q", got)
	}
	if got, _ := inv.Next(db); got != "INV000001" {
		t.Fatalf("inv next = %q", got)
	}
	if got, _ := gl.Next(db); got != "GL000002" {
		t.Fatalf("gl second next = %q", got)
	}
}
