package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("ar-AE,ar;q=0.9") != "ar" {
		t.Fatalf("expected ar")
	}
	if DetectLanguage("AR-sa") != "ar" {
		t.Fatalf("expected ar for AR-sa")
	}
	if DetectLanguage("en-US,en;q=0.8") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("") != "en" {
		t.Fatalf("expected default en")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "en" {
		t.Fatalf("expected en fallback for unsupported language")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("ar", "required") != "مطلوب" {
		t.Fatalf("expected Arabic translation")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// code missing in ar -> fallback to en translation
	if T("ar", "must_not_be_negative") != "Must not be negative" {
		t.Fatalf("expected en fallback for missing ar entry")
	}
	// unknown language -> en translation
	if T("es", "required") != "Required" {
		t.Fatalf("expected en fallback for es lang")
	}
}
