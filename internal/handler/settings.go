package handler

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/adforge/adforge/internal/apperr"
	"github.com/adforge/adforge/internal/auth"
	"github.com/adforge/adforge/internal/billing"
	"github.com/adforge/adforge/internal/model"
	"github.com/adforge/adforge/internal/supabase"
)

type SettingsHandler struct {
	supa      *supabase.Client
	billing   *billing.Client
	bucket    string
	templates *template.Template
	logger    *slog.Logger
}

func NewSettingsHandler(supa *supabase.Client, bc *billing.Client, bucket string, templates *template.Template, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		supa:      supa,
		billing:   bc,
		bucket:    bucket,
		templates: templates,
		logger:    logger,
	}
}

func (h *SettingsHandler) loadProfile(r *http.Request) (model.Profile, error) {
	var profile model.Profile
	err := h.supa.Rest.GetOne(r.Context(), auth.AccessToken(r.Context()), "profiles", auth.UserID(r.Context()), &profile)
	if errors.Is(err, apperr.ErrNotFound) {
		// Sign-up creates the row, but a failed insert there leaves the
		// profile to be completed here.
		return model.Profile{ID: auth.UserID(r.Context()), Plan: model.PlanBasic}, nil
	}
	return profile, err
}

func (h *SettingsHandler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":         "Settings",
		"Email":         auth.Email(r.Context()),
		"Plans":         model.Plans,
		"StripeEnabled": h.billing.Configured(),
	}

	profile, err := h.loadProfile(r)
	if err != nil {
		h.logger.Error("load profile", "error", err)
		data["Error"] = apperr.Message(err)
	}
	data["Profile"] = profile

	render(w, h.templates, "settings.html", data)
}

// Update upserts the profile row, optionally replacing the avatar first.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	plan := r.FormValue("plan")
	if plan == "" {
		plan = model.PlanBasic
	}
	if !model.ValidPlan(plan) {
		renderPartial(w, h.templates, "settings-error", map[string]any{"Error": "Unknown plan."})
		return
	}

	uid := auth.UserID(r.Context())
	token := auth.AccessToken(r.Context())

	profile := model.Profile{
		ID:           uid,
		FirstName:    strings.TrimSpace(r.FormValue("first_name")),
		LastName:     strings.TrimSpace(r.FormValue("last_name")),
		BusinessName: strings.TrimSpace(r.FormValue("business_name")),
		PhoneNumber:  strings.TrimSpace(r.FormValue("phone_number")),
		AvatarURL:    r.FormValue("avatar_url"),
		Plan:         plan,
	}

	if file, fh, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			h.logger.Error("read avatar", "error", err)
			renderPartial(w, h.templates, "settings-error", map[string]any{"Error": "Could not read the uploaded file."})
			return
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = defaultImageType
		}
		path := uid + "/" + uuid.NewString() + "-" + filepath.Base(fh.Filename)
		if _, err := h.supa.Storage.Upload(r.Context(), token, h.bucket, path, data, contentType); err != nil {
			h.logger.Error("upload avatar", "error", err)
			renderPartial(w, h.templates, "settings-error", map[string]any{"Error": apperr.Message(err)})
			return
		}
		profile.AvatarURL = h.supa.Storage.PublicURL(h.bucket, path)
	}

	if err := h.supa.Rest.Upsert(r.Context(), token, "profiles", profile); err != nil {
		h.logger.Error("upsert profile", "error", err)
		renderPartial(w, h.templates, "settings-error", map[string]any{"Error": apperr.Message(err)})
		return
	}

	renderPartial(w, h.templates, "settings-saved", map[string]any{"Profile": profile})
}

// Checkout starts a Stripe checkout session for a paid plan and sends the
// browser to the hosted page.
func (h *SettingsHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if !h.billing.Configured() {
		http.Error(w, "billing is not configured", http.StatusNotFound)
		return
	}

	plan := r.FormValue("plan")
	if plan != model.PlanPremium && plan != model.PlanEnterprise {
		http.Error(w, "plan is not purchasable", http.StatusBadRequest)
		return
	}

	url, err := h.billing.CreateCheckoutSession(auth.Email(r.Context()), plan)
	if err != nil {
		h.logger.Error("create checkout session", "error", err)
		http.Error(w, "failed to start checkout", http.StatusBadGateway)
		return
	}

	redirect(w, r, url)
}
