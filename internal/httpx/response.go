// Package httpx writes the JSON error envelope used by endpoints
// answering API clients instead of rendering HTML.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/Abdulla-Zaid/GulfLimo/internal/validation"
)

type errorBody struct {
	Error  string                `json:"error"`
	Fields validation.Violations `json:"fields,omitempty"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// JSONError writes the error envelope. fields carries per-field
// violation codes when a form payload failed validation.
func JSONError(w http.ResponseWriter, status int, code string, fields validation.Violations) {
	_ = JSON(w, status, errorBody{Error: code, Fields: fields})
}
