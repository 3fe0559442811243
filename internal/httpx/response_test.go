package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abdulla-Zaid/GulfLimo/internal/validation"
)

func TestJSONErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusBadRequest, "invalid_form", validation.Violations{"bill_to": "required"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"error":"invalid_form"`) || !strings.Contains(body, `"bill_to":"required"`) {
		t.Fatalf("body = %q", body)
	}
}

func TestJSONErrorOmitsEmptyFields(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	if strings.Contains(w.Body.String(), "fields") {
		t.Fatalf("body = %q", w.Body.String())
	}
}
