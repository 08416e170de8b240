package templates

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func loadPages(t *testing.T) *Templates {
	t.Helper()
	pages, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	return pages
}

// checkPage asserts the headers render sets and that the body holds every
// string in want
func checkPage(t *testing.T, rec *httptest.ResponseRecorder, status int, want ...string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("status = %d, want %d", rec.Code, status)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	body := rec.Body.String()
	for _, s := range want {
		if !strings.Contains(body, s) {
			t.Errorf("page missing %q\ngot: %s", s, body)
		}
	}
}

// untouched reports whether nothing was written to rec
func untouched(rec *httptest.ResponseRecorder) bool {
	return !rec.Flushed && rec.Body.Len() == 0 && len(rec.Header()) == 0 && rec.Code == http.StatusOK
}
