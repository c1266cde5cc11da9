package billing

import (
	"context"

	"github.com/google/uuid"
)

// PaymentGateway abstracts the outbound billing provider calls.
// The Stripe adapter in the infrastructure layer implements it.
type PaymentGateway interface {
	// CreateCustomer creates a billing customer for an agency and
	// returns the provider customer ID
	CreateCustomer(ctx context.Context, agencyID uuid.UUID, name, email string) (string, error)

	// CreateCheckoutSession starts a subscription checkout for a plan
	// and returns the hosted checkout URL
	CreateCheckoutSession(ctx context.Context, agencyID uuid.UUID, customerID, planCode string) (string, error)

	// CreatePortalSession returns a billing portal URL for a customer
	CreatePortalSession(ctx context.Context, customerID string) (string, error)

	// CancelSubscription cancels a provider subscription immediately
	CancelSubscription(ctx context.Context, subscriptionID string) error
}
