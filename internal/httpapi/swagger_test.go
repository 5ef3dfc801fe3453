package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSwaggerDocServedWhenEnabled(t *testing.T) {
	h := NewMux(&mockService{}, Options{Swagger: true})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"/generate"`) {
		t.Fatalf("doc.json missing /generate: %q", w.Body.String())
	}
}

func TestSwaggerDisabledByDefault(t *testing.T) {
	h := NewMux(&mockService{}, Options{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without swagger, got %d", w.Code)
	}
}
