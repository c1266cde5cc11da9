// Package billing implements the Stripe billing integration.
package billing

import (
	"fmt"

	"github.com/stripe/stripe-go/v81"

	infraconfig "github.com/agencyhub/backend/internal/infrastructure/config"
)

// StripeConfig holds configuration for the Stripe integration
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string

	// WebhookSecret verifies webhook signatures
	WebhookSecret string

	// PriceIDs maps plan codes to Stripe price IDs
	PriceIDs map[string]string

	// SuccessURL is the redirect after successful checkout
	SuccessURL string

	// CancelURL is the redirect after cancelled checkout
	CancelURL string

	// PortalReturnURL is the return URL from the Stripe billing portal
	PortalReturnURL string
}

// NewStripeConfig builds a StripeConfig from the application configuration
func NewStripeConfig(cfg infraconfig.BillingConfig) *StripeConfig {
	return &StripeConfig{
		SecretKey:       cfg.StripeSecretKey,
		WebhookSecret:   cfg.StripeWebhookSecret,
		PriceIDs:        cfg.PriceIDs,
		SuccessURL:      cfg.CheckoutSuccessURL,
		CancelURL:       cfg.CheckoutCancelURL,
		PortalReturnURL: cfg.PortalReturnURL,
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	return nil
}

// GetPriceID returns the Stripe price ID for a plan code
func (c *StripeConfig) GetPriceID(planCode string) (string, error) {
	priceID, exists := c.PriceIDs[planCode]
	if !exists || priceID == "" {
		return "", fmt.Errorf("stripe: no price ID configured for plan: %s", planCode)
	}
	return priceID, nil
}

// PlanForPriceID reverse-maps a Stripe price ID to a plan code
func (c *StripeConfig) PlanForPriceID(priceID string) (string, bool) {
	for plan, id := range c.PriceIDs {
		if id == priceID {
			return plan, true
		}
	}
	return "", false
}

// InitStripeClient initializes the global Stripe client key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
