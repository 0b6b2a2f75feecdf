// Package config loads the application configuration from process
// environment variables once at startup.
package config

import (
	"fmt"
	"os"
)

// Config holds every externally supplied setting. Loaded once, then
// treated as immutable.
type Config struct {
	// Remote backend
	SupabaseURL     string
	SupabaseAnonKey string

	// Text generation
	OpenAIAPIKey string

	// Billing (optional; plan upgrades are read-only without it)
	StripeSecretKey       string
	StripePremiumPriceID  string
	StripeEnterprisePrice string

	// Server
	Port      string
	BaseURL   string
	LogLevel  string
	DBPath    string
	AvatarBkt string
	ProductBkt string
}

// Load reads the configuration from the environment. Missing required
// variables are a startup error listing every absent name; there is no
// runtime fallback for them.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.SupabaseURL = os.Getenv("ADFORGE_SUPABASE_URL")
	if cfg.SupabaseURL == "" {
		missing = append(missing, "ADFORGE_SUPABASE_URL")
	}

	cfg.SupabaseAnonKey = os.Getenv("ADFORGE_SUPABASE_ANON_KEY")
	if cfg.SupabaseAnonKey == "" {
		missing = append(missing, "ADFORGE_SUPABASE_ANON_KEY")
	}

	cfg.OpenAIAPIKey = os.Getenv("ADFORGE_OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		missing = append(missing, "ADFORGE_OPENAI_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.StripeSecretKey = os.Getenv("ADFORGE_STRIPE_SECRET_KEY")
	cfg.StripePremiumPriceID = os.Getenv("ADFORGE_STRIPE_PREMIUM_PRICE_ID")
	cfg.StripeEnterprisePrice = os.Getenv("ADFORGE_STRIPE_ENTERPRISE_PRICE_ID")

	cfg.Port = getEnv("ADFORGE_PORT", "8080")
	cfg.BaseURL = getEnv("ADFORGE_BASE_URL", "http://localhost:"+cfg.Port)
	cfg.LogLevel = getEnv("ADFORGE_LOG_LEVEL", "info")
	cfg.DBPath = getEnv("ADFORGE_DB_PATH", "adforge.db")
	cfg.AvatarBkt = getEnv("ADFORGE_AVATAR_BUCKET", "avatars")
	cfg.ProductBkt = getEnv("ADFORGE_PRODUCT_BUCKET", "product-images")

	return cfg, nil
}

// StripeConfigured reports whether checkout-based plan upgrades are available.
func (c *Config) StripeConfigured() bool {
	return c.StripeSecretKey != ""
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
