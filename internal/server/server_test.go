package server

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adforge/adforge/internal/config"
	"github.com/adforge/adforge/internal/database"
	"github.com/adforge/adforge/internal/logging"
	"github.com/adforge/adforge/internal/openai"
	"github.com/adforge/adforge/internal/supabase"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		SupabaseURL:     "http://supabase.invalid",
		SupabaseAnonKey: "anon",
		OpenAIAPIKey:    "key",
		BaseURL:         "http://localhost:8080",
		AvatarBkt:       "avatars",
		ProductBkt:      "product-images",
	}
	supa := supabase.New(supabase.Config{BaseURL: cfg.SupabaseURL, AnonKey: cfg.SupabaseAnonKey})
	gen := openai.NewClient(cfg.OpenAIAPIKey)
	templates := template.Must(template.New("t").Parse(`{{define "login.html"}}login{{end}}{{define "signup.html"}}signup{{end}}`))

	return New(cfg, db, supa, gen, templates, logging.Setup("error"))
}

func TestHealthIsPublic(t *testing.T) {
	router := newTestServer(t).Router()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestLoginPageIsPublic(t *testing.T) {
	router := newTestServer(t).Router()

	req := httptest.NewRequest("GET", "/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	router := newTestServer(t).Router()

	for _, path := range []string{"/", "/products", "/campaigns", "/settings", "/library", "/api/products"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want redirect to login", path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("%s: Location = %q", path, loc)
		}
	}
}

func TestLoginRateLimited(t *testing.T) {
	router := newTestServer(t).Router()

	var last int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("11th login attempt status = %d, want %d", last, http.StatusTooManyRequests)
	}
}
