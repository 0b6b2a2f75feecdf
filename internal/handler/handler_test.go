package handler

import (
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adforge/adforge/internal/auth"
	"github.com/adforge/adforge/internal/events"
	"github.com/adforge/adforge/internal/supabase"
)

// testTemplates is a minimal in-memory template set: just enough structure
// for handlers to execute every named page and partial.
func testTemplates(t *testing.T) *template.Template {
	t.Helper()
	const src = `
{{define "login.html"}}login error={{.Error}} email={{.Email}}{{end}}
{{define "signup.html"}}signup error={{.Error}}{{end}}
{{define "reset_sent.html"}}reset-sent email={{.Email}}{{end}}
{{define "dashboard.html"}}dashboard products={{.ProductCount}} campaigns={{.CampaignCount}}{{end}}
{{define "products.html"}}{{if .Error}}error={{.Error}}{{else if not .Products}}No products yet{{else}}products={{len .Products}}{{end}}{{end}}
{{define "product_new.html"}}product-form error={{.Error}} name={{.Name}}{{end}}
{{define "campaigns.html"}}campaigns={{len .Campaigns}} error={{.Error}}{{end}}
{{define "campaign_new.html"}}picker products={{len .Products}} platforms={{len .Platforms}}{{end}}
{{define "caption-result"}}draft={{.Draft}} error={{.Error}}{{end}}
{{define "caption-error"}}caption-error={{.Error}}{{end}}
{{define "library.html"}}library={{len .Campaigns}}{{end}}
{{define "settings.html"}}settings plan={{.Profile.Plan}} error={{.Error}}{{end}}
{{define "settings-saved"}}saved name={{.Profile.FirstName}}{{end}}
{{define "settings-error"}}settings-error={{.Error}}{{end}}
`
	return template.Must(template.New("test").Parse(src))
}

func testHub(t *testing.T) *events.Hub {
	t.Helper()
	return events.NewHub(slog.Default())
}

func testSupabase(server *httptest.Server) *supabase.Client {
	return supabase.New(supabase.Config{BaseURL: server.URL, AnonKey: "test-anon"})
}

// authedRequest builds a request that already passed RequireAuth.
func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := auth.WithAuth(req.Context(), auth.AuthContext{
		UserID:      "user-1",
		Email:       "alice@example.com",
		AccessToken: "access-1",
		SessionID:   1,
	})
	return req.WithContext(ctx)
}

func formRequest(method, target, form string) *http.Request {
	req := authedRequest(method, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
