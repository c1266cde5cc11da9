package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	portalsession "github.com/stripe/stripe-go/v81/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"
)

// StripeAdapter talks to the Stripe API for customer, checkout and
// subscription operations. Webhook verification lives in the application
// layer; this adapter covers the outbound calls.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new StripeAdapter and initializes the
// global Stripe client key
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// CreateCustomer creates a Stripe customer for an agency
func (a *StripeAdapter) CreateCustomer(ctx context.Context, agencyID uuid.UUID, name, email string) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("agency_id", agencyID.String())

	cust, err := customer.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer",
			zap.String("agency_id", agencyID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	a.logger.Info("Created Stripe customer",
		zap.String("agency_id", agencyID.String()),
		zap.String("customer_id", cust.ID))

	return cust.ID, nil
}

// CreateCheckoutSession creates a subscription checkout session for a plan
// and returns the hosted checkout URL
func (a *StripeAdapter) CreateCheckoutSession(ctx context.Context, agencyID uuid.UUID, customerID, planCode string) (string, error) {
	priceID, err := a.config.GetPriceID(planCode)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(a.config.SuccessURL),
		CancelURL:  stripe.String(a.config.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"agency_id": agencyID.String(),
				"plan_code": planCode,
			},
		},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		a.logger.Error("Failed to create checkout session",
			zap.String("agency_id", agencyID.String()),
			zap.String("plan_code", planCode),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	a.logger.Info("Created checkout session",
		zap.String("agency_id", agencyID.String()),
		zap.String("plan_code", planCode),
		zap.String("session_id", sess.ID))

	return sess.URL, nil
}

// CreatePortalSession creates a billing portal session and returns its URL
func (a *StripeAdapter) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(a.config.PortalReturnURL),
	}
	params.Context = ctx

	sess, err := portalsession.New(params)
	if err != nil {
		a.logger.Error("Failed to create billing portal session",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create portal session: %w", err)
	}

	return sess.URL, nil
}

// CancelSubscription cancels a Stripe subscription immediately
func (a *StripeAdapter) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := subscription.Cancel(subscriptionID, params); err != nil {
		a.logger.Error("Failed to cancel Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel subscription: %w", err)
	}

	a.logger.Info("Cancelled Stripe subscription",
		zap.String("subscription_id", subscriptionID))

	return nil
}
