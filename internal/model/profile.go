package model

import (
	"slices"
	"time"
)

// Subscription plans. The remote store holds the value; Stripe checkout is
// the only path that changes it to a paid tier when billing is configured.
const (
	PlanBasic      = "Basic"
	PlanPremium    = "Premium"
	PlanEnterprise = "Enterprise"
)

// Plans in upgrade order.
var Plans = []string{PlanBasic, PlanPremium, PlanEnterprise}

func ValidPlan(s string) bool { return slices.Contains(Plans, s) }

// Profile is the per-identity business profile row. Its ID matches the auth
// provider's user id. Created at sign-up, edited from Settings, never deleted.
type Profile struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	BusinessName string     `json:"business_name"`
	PhoneNumber  string     `json:"phone_number"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Plan         string     `json:"plan,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// FullName joins the name fields for display.
func (p *Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
