package middleware

import (
	"net/http"

	"github.com/adforge/adforge/internal/auth"
	"github.com/adforge/adforge/internal/session"
	"github.com/adforge/adforge/internal/store"
)

const sessionCookieName = "adforge_session"

// RequireAuth resolves the session cookie, refreshes the remote session if
// needed, and populates AuthContext. HTMX-aware: returns an HX-Redirect
// header instead of a 303 redirect for HTMX requests.
func RequireAuth(sessionStore *store.SessionStore, guard *session.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				clearSessionCookie(w)
				redirectToLogin(w, r)
				return
			}

			sess, err = guard.EnsureValid(r.Context(), sess)
			if err != nil {
				clearSessionCookie(w)
				redirectToLogin(w, r)
				return
			}

			ac := auth.AuthContext{
				UserID:      sess.UserID,
				Email:       sess.Email,
				AccessToken: sess.AccessToken,
				SessionID:   sess.ID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
