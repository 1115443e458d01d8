package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	svgcrop "github.com/Eryk-dev/svg-crop-api"
)

func testHandler(t *testing.T) *handler {
	t.Helper()
	cfg := svgcrop.DefaultConfig()
	p, err := svgcrop.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return newHandler(p, cfg)
}

func postCrop(t *testing.T, h *handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/crop-svg", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.handleCrop(rec, req)
	return rec
}

func TestHandleCropValidation(t *testing.T) {
	h := testHandler(t)
	tests := []struct {
		name string
		body string
	}{
		{"invalidJSON", `{`},
		{"missingURL", `{}`},
		{"nonHTTPURL", `{"svg_url":"ftp://x.test/a.svg"}`},
		{"badFormat", `{"svg_url":"https://x.test/a.svg","output_format":"bmp"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCrop(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rec.Code)
			}
			var resp map[string]interface{}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("response is not JSON: %s", err)
			}
			if resp["success"] != false {
				t.Error("success should be false")
			}
			if resp["error"] == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestHandleCropMalformedDocument(t *testing.T) {
	// A document that fails to parse is the caller's fault, not ours.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<svg><g></svg>`)
	}))
	defer ts.Close()

	h := testHandler(t)
	rec := postCrop(t, h, fmt.Sprintf(`{"svg_url":%q}`, ts.URL+"/view.svg"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["success"] != false {
		t.Error("success should be false")
	}
}

func TestHandleHealth(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.handleHealth(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status field %q", resp["status"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := authMiddleware("secret", next)

	req := httptest.NewRequest(http.MethodPost, "/crop-svg", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/crop-svg", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status %d, want 200", rec.Code)
	}

	// Health stays reachable without a token.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health: status %d, want 200", rec.Code)
	}
}
