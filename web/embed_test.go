package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestSPAHandler(t *testing.T) {
	root := fstest.MapFS{
		"index.html":    {Data: []byte("<!doctype html><title>labs</title>")},
		"assets/app.js": {Data: []byte("console.log('labs')")},
	}
	h := spaHandler(root)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
		wantCache  bool
	}{
		{"/", http.StatusOK, "<title>labs</title>", false},
		{"/assets/app.js", http.StatusOK, "console.log", true},
		{"/quiz", http.StatusOK, "<title>labs</title>", false},
		{"/api/missing", http.StatusNotFound, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", w.Body.String(), tt.wantBody)
			}
			if got := w.Header().Get("Cache-Control") != ""; got != tt.wantCache {
				t.Errorf("Cache-Control set = %v, want %v", got, tt.wantCache)
			}
		})
	}
}

func TestSPAHandler_EmbeddedIndex(t *testing.T) {
	w := httptest.NewRecorder()
	SPAHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
