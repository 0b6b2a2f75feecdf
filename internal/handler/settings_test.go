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

	"github.com/adforge/adforge/internal/billing"
	"github.com/adforge/adforge/internal/model"
)

func newSettingsHandler(t *testing.T, backend http.HandlerFunc, bc *billing.Client) *SettingsHandler {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return NewSettingsHandler(testSupabase(server), bc, "avatars", testTemplates(t), slog.Default())
}

func TestSettingsPageShowsProfile(t *testing.T) {
	h := newSettingsHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.pgrst.object+json" {
			t.Errorf("Accept = %q, want single-object representation", got)
		}
		json.NewEncoder(w).Encode(model.Profile{ID: "user-1", FirstName: "Alice", Plan: model.PlanPremium})
	}, nil)

	rec := httptest.NewRecorder()
	h.SettingsPage(rec, authedRequest("GET", "/settings", nil))

	if !strings.Contains(rec.Body.String(), "plan=Premium") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestSettingsPageMissingProfileDefaults(t *testing.T) {
	h := newSettingsHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
	}, nil)

	rec := httptest.NewRecorder()
	h.SettingsPage(rec, authedRequest("GET", "/settings", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "plan=Basic") {
		t.Errorf("body = %q, want a blank Basic profile, not an error", body)
	}
	if strings.Contains(body, "Something went wrong") {
		t.Errorf("body = %q, missing profile is not a failure", body)
	}
}

func settingsForm(fields url.Values, avatar string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for key := range fields {
		mw.WriteField(key, fields.Get(key))
	}
	if avatar != "" {
		fw, _ := mw.CreateFormFile("avatar", avatar)
		fw.Write([]byte("fake avatar bytes"))
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestSettingsUpdateUpserts(t *testing.T) {
	var upserted model.Profile
	var prefer string
	h := newSettingsHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/profiles" {
			t.Errorf("unexpected request %s", r.URL.Path)
		}
		prefer = r.Header.Get("Prefer")
		json.NewDecoder(r.Body).Decode(&upserted)
		w.WriteHeader(http.StatusCreated)
	}, nil)

	body, contentType := settingsForm(url.Values{
		"first_name":    {"Alice"},
		"last_name":     {"Smith"},
		"business_name": {"Acme"},
		"phone_number":  {"555-0101"},
		"plan":          {model.PlanBasic},
	}, "")

	req := authedRequest("PUT", "/settings", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if !strings.Contains(rec.Body.String(), "saved name=Alice") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if upserted.ID != "user-1" || upserted.BusinessName != "Acme" {
		t.Errorf("upserted = %+v", upserted)
	}
	if !strings.Contains(prefer, "merge-duplicates") {
		t.Errorf("Prefer = %q, want upsert semantics", prefer)
	}
}

func TestSettingsUpdateUploadsAvatar(t *testing.T) {
	var upserted model.Profile
	h := newSettingsHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/avatars/user-1/"):
			w.Write([]byte(`{"Key":"x"}`))
		case r.URL.Path == "/rest/v1/profiles":
			json.NewDecoder(r.Body).Decode(&upserted)
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}, nil)

	body, contentType := settingsForm(url.Values{
		"first_name": {"Alice"},
		"plan":       {model.PlanBasic},
	}, "me.png")

	req := authedRequest("PUT", "/settings", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if !strings.Contains(upserted.AvatarURL, "/storage/v1/object/public/avatars/user-1/") {
		t.Errorf("avatar url = %q, want the public object URL", upserted.AvatarURL)
	}
	if !strings.HasSuffix(upserted.AvatarURL, "-me.png") {
		t.Errorf("avatar url = %q, want original filename suffix", upserted.AvatarURL)
	}
}

func TestSettingsUpdateRejectsUnknownPlan(t *testing.T) {
	h := newSettingsHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	}, nil)

	body, contentType := settingsForm(url.Values{"plan": {"Platinum"}}, "")
	req := authedRequest("PUT", "/settings", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if !strings.Contains(rec.Body.String(), "Unknown plan.") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCheckoutUnconfigured(t *testing.T) {
	h := newSettingsHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	}, nil)

	form := url.Values{"plan": {model.PlanPremium}}
	rec := httptest.NewRecorder()
	h.Checkout(rec, formRequest("POST", "/settings/checkout", form.Encode()))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d when billing is off", rec.Code, http.StatusNotFound)
	}
}

func TestCheckoutRejectsBasicPlan(t *testing.T) {
	bc := billing.NewClient(billing.Config{SecretKey: "sk_test", PremiumPriceID: "price_p"})
	h := newSettingsHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	}, bc)

	form := url.Values{"plan": {model.PlanBasic}}
	rec := httptest.NewRecorder()
	h.Checkout(rec, formRequest("POST", "/settings/checkout", form.Encode()))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
