package billing

import (
	"context"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	// FindByAgency finds the subscription of an agency
	FindByAgency(ctx context.Context, agencyID uuid.UUID) (*Subscription, error)

	// FindByStripeSubscriptionID finds a subscription by its Stripe ID
	FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)

	// FindByStripeCustomerID finds a subscription by its Stripe customer ID
	FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*Subscription, error)

	// Save creates or updates a subscription
	Save(ctx context.Context, subscription *Subscription) error

	// SaveWithLock updates a subscription with an optimistic version check
	SaveWithLock(ctx context.Context, subscription *Subscription) error
}

// LedgerRepository defines the interface for token ledger persistence.
// Append runs inside a transaction holding a row lock on the agency
// balance so concurrent mutations serialize; apply receives the balance
// before the entry and returns the entry to append.
type LedgerRepository interface {
	// Append appends one ledger entry under the agency balance lock
	Append(ctx context.Context, agencyID uuid.UUID, apply func(balanceBefore int64) (*LedgerEntry, error)) (*LedgerEntry, error)

	// Balance returns the current token balance of an agency
	Balance(ctx context.Context, agencyID uuid.UUID) (int64, error)

	// FindAllForAgency lists ledger entries of an agency, newest first
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)

	// CountForAgency counts ledger entries of an agency
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)
}

// WebhookEventRepository tracks processed billing-provider events
type WebhookEventRepository interface {
	// IsProcessed reports whether an event ID has already been processed
	IsProcessed(ctx context.Context, providerEventID string) (bool, error)

	// MarkProcessed records an event ID; returns false if already processed
	MarkProcessed(ctx context.Context, providerEventID, eventType string) (bool, error)
}
