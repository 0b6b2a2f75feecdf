// Package server wires the stores, gateway clients, and handlers into one
// http.Handler.
package server

import (
	"database/sql"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/adforge/adforge/internal/billing"
	"github.com/adforge/adforge/internal/config"
	"github.com/adforge/adforge/internal/events"
	"github.com/adforge/adforge/internal/handler"
	"github.com/adforge/adforge/internal/middleware"
	"github.com/adforge/adforge/internal/openai"
	"github.com/adforge/adforge/internal/session"
	"github.com/adforge/adforge/internal/store"
	"github.com/adforge/adforge/internal/supabase"
)

type Server struct {
	db           *sql.DB
	hub          *events.Hub
	sessionStore *store.SessionStore
	guard        *session.Guard

	authH      *handler.AuthHandler
	dashboardH *handler.DashboardHandler
	productH   *handler.ProductHandler
	campaignH  *handler.CampaignHandler
	settingsH  *handler.SettingsHandler

	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(cfg *config.Config, db *sql.DB, supa *supabase.Client, gen *openai.Client, templates *template.Template, logger *slog.Logger) *Server {
	hub := events.NewHub(logger.With("component", "events"))
	sessionStore := store.NewSessionStore(db)
	guard := session.NewGuard(sessionStore, supa.Auth, hub, logger.With("component", "session"))

	var billingClient *billing.Client
	if cfg.StripeConfigured() {
		billingClient = billing.NewClient(billing.Config{
			SecretKey:         cfg.StripeSecretKey,
			PremiumPriceID:    cfg.StripePremiumPriceID,
			EnterprisePriceID: cfg.StripeEnterprisePrice,
			SuccessURL:        cfg.BaseURL + "/settings",
			CancelURL:         cfg.BaseURL + "/settings",
		})
	}

	return &Server{
		db:           db,
		hub:          hub,
		sessionStore: sessionStore,
		guard:        guard,
		authH:        handler.NewAuthHandler(supa, sessionStore, guard, hub, templates, logger.With("component", "auth")),
		dashboardH:   handler.NewDashboardHandler(supa, templates, logger.With("component", "dashboard")),
		productH:     handler.NewProductHandler(supa, hub, cfg.ProductBkt, templates, logger.With("component", "product")),
		campaignH:    handler.NewCampaignHandler(supa, gen, hub, templates, logger.With("component", "campaign")),
		settingsH:    handler.NewSettingsHandler(supa, billingClient, cfg.AvatarBkt, templates, logger.With("component", "settings")),
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /signup", s.authH.SignUpPage)
	outerMux.HandleFunc("POST /signup", s.rateLimitedHandler(s.authH.SignUp))
	outerMux.HandleFunc("POST /reset-password", s.rateLimitedHandler(s.authH.ResetPassword))
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.guard)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	mux.HandleFunc("GET /", s.dashboardH.Dashboard)

	mux.HandleFunc("GET /products", s.productH.ProductsPage)
	mux.HandleFunc("GET /products/new", s.productH.NewProductPage)
	mux.HandleFunc("POST /products", s.productH.Create)

	mux.HandleFunc("GET /campaigns", s.campaignH.CampaignsPage)
	mux.HandleFunc("GET /campaigns/new", s.campaignH.NewCampaignPage)
	mux.HandleFunc("POST /campaigns/generate", s.campaignH.Generate)
	mux.HandleFunc("POST /campaigns", s.campaignH.Save)
	mux.HandleFunc("GET /library", s.campaignH.LibraryPage)

	mux.HandleFunc("GET /settings", s.settingsH.SettingsPage)
	mux.HandleFunc("PUT /settings", s.settingsH.Update)
	mux.HandleFunc("POST /settings/checkout", s.settingsH.Checkout)

	mux.HandleFunc("GET /api/products", s.productH.APIList)
	mux.HandleFunc("GET /api/campaigns", s.campaignH.APIList)

	mux.HandleFunc("GET /ws", events.Handler(s.hub))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
