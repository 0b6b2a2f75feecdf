// Package billing starts Stripe checkout sessions for plan upgrades.
package billing

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/adforge/adforge/internal/model"
)

type Config struct {
	SecretKey         string
	PremiumPriceID    string
	EnterprisePriceID string
	SuccessURL        string
	CancelURL         string
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{cfg: cfg}
}

// Configured reports whether checkout can be offered at all.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.SecretKey != ""
}

// PriceIDForPlan returns the Stripe price ID for a paid plan, empty for
// Basic or an unknown plan.
func (c *Client) PriceIDForPlan(plan string) string {
	switch plan {
	case model.PlanPremium:
		return c.cfg.PremiumPriceID
	case model.PlanEnterprise:
		return c.cfg.EnterprisePriceID
	}
	return ""
}

// CreateCheckoutSession creates a subscription checkout for the given plan
// and returns the hosted checkout URL.
func (c *Client) CreateCheckoutSession(customerEmail, plan string) (string, error) {
	priceID := c.PriceIDForPlan(plan)
	if priceID == "" {
		return "", fmt.Errorf("no price configured for plan %q", plan)
	}

	params := &stripe.CheckoutSessionParams{
		CustomerEmail: stripe.String(customerEmail),
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		AllowPromotionCodes: stripe.Bool(true),
		SuccessURL:          stripe.String(c.cfg.SuccessURL),
		CancelURL:           stripe.String(c.cfg.CancelURL),
	}
	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}
