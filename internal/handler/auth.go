package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/adforge/adforge/internal/apperr"
	"github.com/adforge/adforge/internal/auth"
	"github.com/adforge/adforge/internal/events"
	"github.com/adforge/adforge/internal/model"
	"github.com/adforge/adforge/internal/session"
	"github.com/adforge/adforge/internal/store"
	"github.com/adforge/adforge/internal/supabase"
)

const sessionCookieName = "adforge_session"

// sessionTTL is how long the browser keeps the cookie. The remote tokens
// inside the row are refreshed independently.
const sessionTTL = 30 * 24 * 60 * 60

type AuthHandler struct {
	supa         *supabase.Client
	sessionStore *store.SessionStore
	guard        *session.Guard
	hub          *events.Hub
	templates    *template.Template
	logger       *slog.Logger
}

func NewAuthHandler(
	supa *supabase.Client,
	ss *store.SessionStore,
	guard *session.Guard,
	hub *events.Hub,
	templates *template.Template,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		supa:         supa,
		sessionStore: ss,
		guard:        guard,
		hub:          hub,
		templates:    templates,
		logger:       logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, h.templates, "login.html", map[string]any{"Title": "Sign In", "Email": ""})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		render(w, h.templates, "login.html", map[string]any{
			"Title": "Sign In",
			"Email": email,
			"Error": "Email and password are required.",
		})
		return
	}

	sess, err := h.supa.Auth.SignInWithPassword(r.Context(), email, password)
	if err != nil {
		h.logger.Warn("sign in failed", "error", err)
		msg := apperr.Message(err)
		if errors.Is(err, apperr.ErrUnauthenticated) {
			msg = "Invalid email or password."
		}
		render(w, h.templates, "login.html", map[string]any{
			"Title": "Sign In",
			"Email": email,
			"Error": msg,
		})
		return
	}

	token := uuid.NewString()
	if _, err := h.sessionStore.Create(token, sess.AccessToken, sess.RefreshToken, sess.User.ID, sess.User.Email, sess.Expiry()); err != nil {
		h.logger.Error("create local session", "error", err)
		render(w, h.templates, "login.html", map[string]any{
			"Title": "Sign In",
			"Email": email,
			"Error": "Something went wrong. Please try again.",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionTTL,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	h.hub.Publish(sess.User.ID, events.NewEvent("auth", events.ActionSignedIn, ""))
	redirect(w, r, "/")
}

func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	render(w, h.templates, "signup.html", map[string]any{
		"Title":        "Create Account",
		"FirstName":    "",
		"LastName":     "",
		"BusinessName": "",
		"PhoneNumber":  "",
		"Email":        "",
	})
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	form := map[string]any{
		"Title":        "Create Account",
		"FirstName":    strings.TrimSpace(r.FormValue("first_name")),
		"LastName":     strings.TrimSpace(r.FormValue("last_name")),
		"BusinessName": strings.TrimSpace(r.FormValue("business_name")),
		"PhoneNumber":  strings.TrimSpace(r.FormValue("phone_number")),
		"Email":        strings.TrimSpace(r.FormValue("email")),
	}
	email := form["Email"].(string)
	password := r.FormValue("password")

	if email == "" || password == "" {
		form["Error"] = "Email and password are required."
		render(w, h.templates, "signup.html", form)
		return
	}

	sess, err := h.supa.Auth.SignUp(r.Context(), email, password)
	if err != nil {
		h.logger.Warn("sign up failed", "error", err)
		msg := apperr.Message(err)
		if errors.Is(err, apperr.ErrConflict) {
			msg = "An account with that email already exists."
		}
		form["Error"] = msg
		render(w, h.templates, "signup.html", form)
		return
	}

	profile := model.Profile{
		ID:           sess.User.ID,
		FirstName:    form["FirstName"].(string),
		LastName:     form["LastName"].(string),
		BusinessName: form["BusinessName"].(string),
		PhoneNumber:  form["PhoneNumber"].(string),
		Plan:         model.PlanBasic,
	}
	if err := h.supa.Rest.Insert(r.Context(), sess.AccessToken, "profiles", profile); err != nil {
		// The identity exists; the profile can be completed from Settings.
		h.logger.Error("insert profile after sign up", "user_id", sess.User.ID, "error", err)
	}

	redirect(w, r, "/login")
}

// Logout invalidates the current session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if sess, err := h.sessionStore.GetByID(ac.SessionID); err == nil && sess != nil {
			h.guard.SignOut(r.Context(), sess)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	redirect(w, r, "/login")
}

// ResetPassword requests a recovery email. The confirmation is rendered
// regardless of outcome so the form cannot be used to probe for accounts.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		render(w, h.templates, "login.html", map[string]any{
			"Title": "Sign In",
			"Email": "",
			"Error": "Enter your email to reset your password.",
		})
		return
	}

	if err := h.supa.Auth.ResetPassword(r.Context(), email); err != nil {
		h.logger.Error("reset password", "error", err)
	}

	render(w, h.templates, "reset_sent.html", map[string]any{
		"Title": "Check Your Email",
		"Email": email,
	})
}
