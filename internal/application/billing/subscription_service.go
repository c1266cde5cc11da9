package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// SubscriptionService manages agency subscriptions: trial provisioning
// on signup, plan checkout, the billing portal and cancellation.
type SubscriptionService struct {
	subscriptionRepo billing.SubscriptionRepository
	tokens           *TokenService
	gateway          PaymentGateway
	logger           *zap.Logger
	trialDays        int
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptionRepo billing.SubscriptionRepository,
	tokens *TokenService,
	gateway PaymentGateway,
	logger *zap.Logger,
	trialDays int,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		tokens:           tokens,
		gateway:          gateway,
		logger:           logger,
		trialDays:        trialDays,
	}
}

// ListPlans returns the plan catalog
func (s *SubscriptionService) ListPlans() []PlanDTO {
	plans := billing.AllPlans()
	dtos := make([]PlanDTO, len(plans))
	for i, plan := range plans {
		dtos[i] = ToPlanDTO(plan)
	}
	return dtos
}

// GetSubscription returns the subscription of an agency
func (s *SubscriptionService) GetSubscription(ctx context.Context, agencyID uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := s.subscriptionRepo.FindByAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	return ToSubscriptionDTO(sub), nil
}

// ProvisionTrial creates the trial subscription for a new agency and
// grants the trial token allowance. Called once during registration.
func (s *SubscriptionService) ProvisionTrial(ctx context.Context, agencyID uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := billing.NewTrialSubscription(agencyID, s.trialDays)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	subID := sub.ID
	if _, err := s.tokens.Grant(ctx, agencyID, sub.Plan().MonthlyTokens, SourceTypeSubscription, &subID, "trial allowance"); err != nil {
		return nil, fmt.Errorf("failed to grant trial tokens: %w", err)
	}

	s.logger.Info("Provisioned trial subscription",
		zap.String("agency_id", agencyID.String()),
		zap.String("subscription_id", sub.ID.String()),
		zap.Int("trial_days", s.trialDays))

	return ToSubscriptionDTO(sub), nil
}

// StartCheckoutInput carries the data needed to start a plan checkout
type StartCheckoutInput struct {
	AgencyID      uuid.UUID
	PlanCode      billing.PlanCode
	CustomerName  string
	CustomerEmail string
}

// StartCheckout creates a hosted checkout session for a paid plan,
// creating the billing customer first if the agency has none yet
func (s *SubscriptionService) StartCheckout(ctx context.Context, input StartCheckoutInput) (*CheckoutSessionDTO, error) {
	if err := billing.ValidatePlanCode(input.PlanCode); err != nil {
		return nil, err
	}
	if input.PlanCode == billing.PlanTrial {
		return nil, shared.NewDomainError("INVALID_PLAN", "Cannot check out the trial plan")
	}

	sub, err := s.subscriptionRepo.FindByAgency(ctx, input.AgencyID)
	if err != nil {
		return nil, err
	}

	if sub.StripeCustomerID == "" {
		customerID, err := s.gateway.CreateCustomer(ctx, input.AgencyID, input.CustomerName, input.CustomerEmail)
		if err != nil {
			return nil, err
		}
		sub.LinkStripe(customerID, sub.StripeSubscriptionID)
		if err := s.subscriptionRepo.SaveWithLock(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to save subscription: %w", err)
		}
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, input.AgencyID, sub.StripeCustomerID, string(input.PlanCode))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Started plan checkout",
		zap.String("agency_id", input.AgencyID.String()),
		zap.String("plan_code", string(input.PlanCode)))

	return &CheckoutSessionDTO{URL: url}, nil
}

// OpenBillingPortal returns a billing portal URL for the agency
func (s *SubscriptionService) OpenBillingPortal(ctx context.Context, agencyID uuid.UUID) (*PortalSessionDTO, error) {
	sub, err := s.subscriptionRepo.FindByAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if sub.StripeCustomerID == "" {
		return nil, shared.NewDomainError("NO_BILLING_CUSTOMER", "Agency has no billing customer yet")
	}

	url, err := s.gateway.CreatePortalSession(ctx, sub.StripeCustomerID)
	if err != nil {
		return nil, err
	}

	return &PortalSessionDTO{URL: url}, nil
}

// CancelSubscription cancels the agency's subscription, remotely first
// when it is linked to the billing provider
func (s *SubscriptionService) CancelSubscription(ctx context.Context, agencyID uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := s.subscriptionRepo.FindByAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	if sub.StripeSubscriptionID != "" {
		if err := s.gateway.CancelSubscription(ctx, sub.StripeSubscriptionID); err != nil {
			return nil, err
		}
	}

	if err := sub.Cancel(); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.SaveWithLock(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("Cancelled subscription",
		zap.String("agency_id", agencyID.String()),
		zap.String("subscription_id", sub.ID.String()))

	return ToSubscriptionDTO(sub), nil
}
