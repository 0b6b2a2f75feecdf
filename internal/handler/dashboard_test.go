package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adforge/adforge/internal/model"
)

func newDashboardHandler(t *testing.T, backend http.HandlerFunc) *DashboardHandler {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return NewDashboardHandler(testSupabase(server), testTemplates(t), slog.Default())
}

func TestDashboardCounts(t *testing.T) {
	h := newDashboardHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/products":
			data, _ := json.Marshal([]model.Product{{ID: "p1"}, {ID: "p2"}})
			w.Write(data)
		case "/rest/v1/campaigns":
			data, _ := json.Marshal([]model.Campaign{{ID: "c1"}})
			w.Write(data)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	})

	rec := httptest.NewRecorder()
	h.Dashboard(rec, authedRequest("GET", "/", nil))

	if !strings.Contains(rec.Body.String(), "products=2") || !strings.Contains(rec.Body.String(), "campaigns=1") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestDashboardSectionsDegradeIndependently(t *testing.T) {
	h := newDashboardHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/v1/products" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("[]"))
	})

	rec := httptest.NewRecorder()
	h.Dashboard(rec, authedRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, the page still renders", rec.Code)
	}
	// The campaigns section still shows despite the products failure.
	if !strings.Contains(rec.Body.String(), "campaigns=0") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestDashboardUnknownPathIs404(t *testing.T) {
	h := newDashboardHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	rec := httptest.NewRecorder()
	h.Dashboard(rec, authedRequest("GET", "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
