package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/adforge/adforge/internal/apperr"
	"github.com/adforge/adforge/internal/auth"
	"github.com/adforge/adforge/internal/model"
	"github.com/adforge/adforge/internal/supabase"
)

const recentCampaignCount = 5

type DashboardHandler struct {
	supa      *supabase.Client
	templates *template.Template
	logger    *slog.Logger
}

func NewDashboardHandler(supa *supabase.Client, templates *template.Template, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{supa: supa, templates: templates, logger: logger}
}

// Dashboard renders the overview counts and most recent campaigns. Each
// fetch is independent: one failing degrades its section, not the page.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	uid := auth.UserID(r.Context())
	token := auth.AccessToken(r.Context())
	filter := map[string]string{"user_id": uid}
	data := map[string]any{
		"Title": "Dashboard",
		"Email": auth.Email(r.Context()),
	}

	var products []model.Product
	if err := h.supa.Rest.List(r.Context(), token, "products", filter, "", &products); err != nil {
		h.logger.Error("dashboard products", "error", err)
		data["ProductsError"] = apperr.Message(err)
	} else {
		data["ProductCount"] = len(products)
	}

	var campaigns []model.Campaign
	if err := h.supa.Rest.List(r.Context(), token, "campaigns", filter, "created_at", &campaigns); err != nil {
		h.logger.Error("dashboard campaigns", "error", err)
		data["CampaignsError"] = apperr.Message(err)
	} else {
		data["CampaignCount"] = len(campaigns)
		if len(campaigns) > recentCampaignCount {
			campaigns = campaigns[:recentCampaignCount]
		}
		data["RecentCampaigns"] = campaigns
	}

	render(w, h.templates, "dashboard.html", data)
}
