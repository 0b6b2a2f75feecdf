package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/adforge/adforge/internal/model"
)

func newProductHandler(t *testing.T, backend http.HandlerFunc) *ProductHandler {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return NewProductHandler(testSupabase(server), testHub(t), "product-images", testTemplates(t), slog.Default())
}

func TestProductsPageEmptyState(t *testing.T) {
	h := newProductHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("user_id"); got != "eq.user-1" {
			t.Errorf("user_id filter = %q", got)
		}
		w.Write([]byte("[]"))
	})

	rec := httptest.NewRecorder()
	h.ProductsPage(rec, authedRequest("GET", "/products", nil))

	if !strings.Contains(rec.Body.String(), "No products yet") {
		t.Errorf("body = %q, want the empty state, not an error", rec.Body.String())
	}
}

func TestProductsPageListFailure(t *testing.T) {
	h := newProductHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	h.ProductsPage(rec, authedRequest("GET", "/products", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, the page still renders", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Something went wrong") {
		t.Errorf("body = %q, want a user-visible message", rec.Body.String())
	}
}

func productForm(values url.Values, images []string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for key := range values {
		mw.WriteField(key, values.Get(key))
	}
	for _, name := range images {
		fw, _ := mw.CreateFormFile("images", name)
		fw.Write([]byte("fake image bytes"))
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestProductCreateUploadsAndInserts(t *testing.T) {
	var inserted model.Product
	var uploads []string
	h := newProductHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/product-images/"):
			uploads = append(uploads, r.URL.Path)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"Key":"x"}`))
		case r.URL.Path == "/rest/v1/products" && r.Method == http.MethodPost:
			json.NewDecoder(r.Body).Decode(&inserted)
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	body, contentType := productForm(url.Values{
		"name":        {"Widget"},
		"description": {"A useful widget"},
		"price":       {"19.99"},
		"category":    {"Gadgets"},
	}, []string{"front.png", "back.png"})

	req := authedRequest("POST", "/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if len(uploads) != 2 {
		t.Fatalf("uploads = %d, want 2", len(uploads))
	}
	for _, p := range uploads {
		if !strings.Contains(p, "/user-1/") {
			t.Errorf("upload path %q should be scoped to the user", p)
		}
	}
	if inserted.Name != "Widget" || inserted.Price != 19.99 || inserted.UserID != "user-1" {
		t.Errorf("inserted = %+v", inserted)
	}
	if got := len(inserted.Images()); got != 2 {
		t.Errorf("image urls = %d (%q), want 2", got, inserted.ImageURL)
	}
}

func TestProductCreateRejectsNegativePrice(t *testing.T) {
	h := newProductHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	})

	body, contentType := productForm(url.Values{
		"name":     {"Widget"},
		"price":    {"-1"},
		"category": {"Gadgets"},
	}, nil)

	req := authedRequest("POST", "/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if !strings.Contains(rec.Body.String(), "non-negative") {
		t.Errorf("body = %q, want price validation message", rec.Body.String())
	}
	// The typed name survives the round trip.
	if !strings.Contains(rec.Body.String(), "name=Widget") {
		t.Errorf("body = %q, want form values retained", rec.Body.String())
	}
}

func TestProductAPIListReturnsEmptyArray(t *testing.T) {
	h := newProductHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	rec := httptest.NewRecorder()
	h.APIList(rec, authedRequest("GET", "/api/products", nil))

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}
