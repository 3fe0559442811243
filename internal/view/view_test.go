package view

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTemplates(t *testing.T, pages map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range pages {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	ResetForTests()
	SetBaseDir(dir)
	t.Cleanup(ResetForTests)
}

func renderWith(t *testing.T, name, acceptLanguage string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", acceptLanguage)
	w := httptest.NewRecorder()
	if err := Render(w, req, name, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	return w.Body.String()
}

func TestRenderCachesPerLanguage(t *testing.T) {
	setupTemplates(t, map[string]string{
		"page.html": `<!doctype html><html><body>{{t "dashboard"}}</body></html>`,
	})

	if body := renderWith(t, "page.html", "en"); !strings.Contains(body, "Dashboard") {
		t.Fatalf("english body = %q", body)
	}
	// The second request must not be served from the first request's
	// parsed template.
	if body := renderWith(t, "page.html", "ar"); !strings.Contains(body, "لوحة التحكم") {
		t.Fatalf("arabic body = %q", body)
	}
	if body := renderWith(t, "page.html", "en"); !strings.Contains(body, "Dashboard") {
		t.Fatalf("cached english body = %q", body)
	}
}

func TestRenderLangCookieWins(t *testing.T) {
	setupTemplates(t, map[string]string{
		"page.html": `<!doctype html><html lang="{{lang}}"><body>{{t "search"}}</body></html>`,
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en")
	req.AddCookie(&http.Cookie{Name: "lang", Value: "ar"})
	w := httptest.NewRecorder()
	if err := Render(w, req, "page.html", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(w.Body.String(), `lang="ar"`) || !strings.Contains(w.Body.String(), "بحث") {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestRenderWrapsInLayout(t *testing.T) {
	setupTemplates(t, map[string]string{
		"layout.html": `<!doctype html><html><body><main>{{template "content" .}}</main></body></html>`,
		"page.html":   `{{define "content"}}<p>{{t "total"}}</p>{{end}}`,
	})

	body := renderWith(t, "page.html", "en")
	if !strings.Contains(body, "<main><p>Total</p></main>") {
		t.Fatalf("body = %q", body)
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	setupTemplates(t, map[string]string{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := Render(httptest.NewRecorder(), req, "nope.html", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}
