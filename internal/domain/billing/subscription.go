package billing

import (
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionStatus represents the status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is an agency's subscription to a plan. One subscription
// exists per agency; Stripe IDs link it to the billing provider.
type Subscription struct {
	shared.AgencyAggregateRoot
	PlanCode             PlanCode
	Status               SubscriptionStatus
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
	StripeCustomerID     string
	StripeSubscriptionID string
	CancelledAt          *time.Time
}

// NewTrialSubscription creates a trial subscription for a new agency
func NewTrialSubscription(agencyID uuid.UUID, trialDays int) (*Subscription, error) {
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL_DAYS", "Trial days must be positive")
	}

	now := time.Now()
	sub := &Subscription{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(agencyID),
		PlanCode:            PlanTrial,
		Status:              SubscriptionStatusTrialing,
		CurrentPeriodStart:  now,
		CurrentPeriodEnd:    now.AddDate(0, 0, trialDays),
	}

	return sub, nil
}

// Plan returns the catalog plan of the subscription
func (s *Subscription) Plan() Plan {
	plan, _ := PlanByCode(s.PlanCode)
	return plan
}

// ChangePlan switches the subscription to another paid plan
func (s *Subscription) ChangePlan(code PlanCode) error {
	if err := ValidatePlanCode(code); err != nil {
		return err
	}
	if code == PlanTrial {
		return shared.NewDomainError("INVALID_PLAN", "Cannot switch back to the trial plan")
	}
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELLED", "Subscription is cancelled")
	}
	if s.PlanCode == code {
		return shared.NewDomainError("PLAN_UNCHANGED", "Subscription is already on this plan")
	}

	s.PlanCode = code
	s.Status = SubscriptionStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// RenewPeriod advances the billing period after a successful payment
func (s *Subscription) RenewPeriod(periodStart, periodEnd time.Time) error {
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELLED", "Subscription is cancelled")
	}
	if !periodEnd.After(periodStart) {
		return shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	s.CurrentPeriodStart = periodStart
	s.CurrentPeriodEnd = periodEnd
	s.Status = SubscriptionStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// MarkPastDue flags the subscription after a failed payment
func (s *Subscription) MarkPastDue() error {
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELLED", "Subscription is cancelled")
	}

	s.Status = SubscriptionStatusPastDue
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Cancel cancels the subscription
func (s *Subscription) Cancel() error {
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Subscription is already cancelled")
	}

	now := time.Now()
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// LinkStripe attaches the Stripe customer and subscription IDs
func (s *Subscription) LinkStripe(customerID, subscriptionID string) {
	s.StripeCustomerID = customerID
	s.StripeSubscriptionID = subscriptionID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsUsable returns true if the subscription allows platform usage
func (s *Subscription) IsUsable() bool {
	switch s.Status {
	case SubscriptionStatusTrialing, SubscriptionStatusActive:
		return !time.Now().After(s.CurrentPeriodEnd.AddDate(0, 0, gracePeriodDays))
	case SubscriptionStatusPastDue:
		return true // Past due keeps access during dunning
	default:
		return false
	}
}

// gracePeriodDays is the slack after period end before access is cut
const gracePeriodDays = 3
