package handler

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adforge/adforge/internal/apperr"
	"github.com/adforge/adforge/internal/auth"
	"github.com/adforge/adforge/internal/campaign"
	"github.com/adforge/adforge/internal/events"
	"github.com/adforge/adforge/internal/model"
	"github.com/adforge/adforge/internal/openai"
	"github.com/adforge/adforge/internal/supabase"
)

type CampaignHandler struct {
	supa      *supabase.Client
	gen       *openai.Client
	hub       *events.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewCampaignHandler(supa *supabase.Client, gen *openai.Client, hub *events.Hub, templates *template.Template, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		supa:      supa,
		gen:       gen,
		hub:       hub,
		templates: templates,
		logger:    logger,
	}
}

func (h *CampaignHandler) listCampaigns(r *http.Request) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := h.supa.Rest.List(
		r.Context(), auth.AccessToken(r.Context()),
		"campaigns", map[string]string{"user_id": auth.UserID(r.Context())},
		"created_at", &campaigns,
	)
	return campaigns, err
}

func (h *CampaignHandler) CampaignsPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Title": "Campaigns"}

	campaigns, err := h.listCampaigns(r)
	if err != nil {
		h.logger.Error("list campaigns", "error", err)
		data["Error"] = apperr.Message(err)
	}
	data["Campaigns"] = campaigns

	render(w, h.templates, "campaigns.html", data)
}

func (h *CampaignHandler) NewCampaignPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":      "Create Campaign",
		"Platforms":  model.Platforms,
		"Objectives": model.Objectives,
		"Tones":      model.Tones,
	}

	var products []model.Product
	err := h.supa.Rest.List(
		r.Context(), auth.AccessToken(r.Context()),
		"products", map[string]string{"user_id": auth.UserID(r.Context())},
		"created_at", &products,
	)
	if err != nil {
		h.logger.Error("list products for picker", "error", err)
		data["Error"] = apperr.Message(err)
	}
	data["Products"] = products

	render(w, h.templates, "campaign_new.html", data)
}

// paramsFromForm resolves the form's product among the user's own products
// and assembles the generation parameters. An unresolvable product id means
// the form was bypassed, not a user mistake.
func (h *CampaignHandler) paramsFromForm(r *http.Request) (campaign.Params, error) {
	productID := r.FormValue("product_id")

	var products []model.Product
	err := h.supa.Rest.List(
		r.Context(), auth.AccessToken(r.Context()),
		"products", map[string]string{"user_id": auth.UserID(r.Context())},
		"", &products,
	)
	if err != nil {
		return campaign.Params{}, err
	}

	params := campaign.Params{
		Platform:  r.FormValue("platform"),
		Language:  strings.TrimSpace(r.FormValue("language")),
		Objective: r.FormValue("objective"),
		Tone:      r.FormValue("tone"),
		Audience:  strings.TrimSpace(r.FormValue("target_audience")),
	}
	for _, p := range products {
		if p.ID == productID {
			params.Product = p
			break
		}
	}
	return params, nil
}

// Generate produces a caption draft and renders it as an HTMX partial.
func (h *CampaignHandler) Generate(w http.ResponseWriter, r *http.Request) {
	params, err := h.paramsFromForm(r)
	if err != nil {
		h.logger.Error("resolve generation params", "error", err)
		renderPartial(w, h.templates, "caption-error", map[string]any{"Error": apperr.Message(err)})
		return
	}

	wf := campaign.NewWorkflow(h.gen, nil)
	draft, err := wf.Generate(r.Context(), params)
	if err != nil {
		h.logger.Error("generate caption", "error", err)
		renderPartial(w, h.templates, "caption-error", map[string]any{"Error": apperr.Message(err)})
		return
	}

	renderPartial(w, h.templates, "caption-result", map[string]any{
		"Draft":  draft,
		"Params": params,
	})
}

// Save persists an accepted draft as a campaign row.
func (h *CampaignHandler) Save(w http.ResponseWriter, r *http.Request) {
	params, err := h.paramsFromForm(r)
	if err != nil {
		h.logger.Error("resolve save params", "error", err)
		renderPartial(w, h.templates, "caption-error", map[string]any{"Error": apperr.Message(err)})
		return
	}
	content := strings.TrimSpace(r.FormValue("content"))

	uid := auth.UserID(r.Context())
	token := auth.AccessToken(r.Context())

	wf := campaign.NewWorkflow(nil, campaign.SaverFunc(func(ctx context.Context, c *model.Campaign) error {
		c.UserID = uid
		return h.supa.Rest.Insert(ctx, token, "campaigns", c)
	}))
	if err := wf.Resume(params, content); err != nil {
		renderPartial(w, h.templates, "caption-error", map[string]any{"Error": apperr.Message(err)})
		return
	}

	if _, err := wf.Save(r.Context()); err != nil {
		h.logger.Error("save campaign", "error", err)
		// The draft survives the failure so the user can retry.
		renderPartial(w, h.templates, "caption-result", map[string]any{
			"Draft":  content,
			"Params": params,
			"Error":  apperr.Message(err),
		})
		return
	}

	h.hub.Publish(uid, events.NewEvent("campaign", events.ActionCreated, ""))
	redirect(w, r, "/campaigns")
}

// LibraryPage shows every caption the user has generated and saved.
func (h *CampaignHandler) LibraryPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Title": "AI Library"}

	campaigns, err := h.listCampaigns(r)
	if err != nil {
		h.logger.Error("list library", "error", err)
		data["Error"] = apperr.Message(err)
	}
	data["Campaigns"] = campaigns

	render(w, h.templates, "library.html", data)
}

// APIList serves the campaign list as JSON for in-page refreshes.
func (h *CampaignHandler) APIList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.listCampaigns(r)
	if err != nil {
		h.logger.Error("list campaigns", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": apperr.Message(err)})
		return
	}
	if campaigns == nil {
		campaigns = []model.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}
