package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/shared"
	infrabilling "github.com/agencyhub/backend/internal/infrastructure/billing"
)

// StripeWebhookService handles Stripe webhook events
type StripeWebhookService struct {
	config           *infrabilling.StripeConfig
	subscriptionRepo billing.SubscriptionRepository
	webhookEvents    billing.WebhookEventRepository
	tokens           *TokenService
	logger           *zap.Logger
}

// StripeWebhookServiceConfig contains configuration for StripeWebhookService
type StripeWebhookServiceConfig struct {
	Config           *infrabilling.StripeConfig
	SubscriptionRepo billing.SubscriptionRepository
	WebhookEvents    billing.WebhookEventRepository
	Tokens           *TokenService
	Logger           *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	return &StripeWebhookService{
		config:           cfg.Config,
		subscriptionRepo: cfg.SubscriptionRepo,
		webhookEvents:    cfg.WebhookEvents,
		tokens:           cfg.Tokens,
		logger:           cfg.Logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies and processes a Stripe webhook event.
// Replayed provider event IDs are acknowledged without re-applying
// their effects. The event is recorded as processed only after its
// handler succeeds, so a transient failure leaves the event unmarked
// and the provider's retry gets another chance to apply it.
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature",
			zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	processed, err := s.webhookEvents.IsProcessed(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check webhook event: %w", err)
	}
	if processed {
		s.logger.Info("Skipping already processed webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return &WebhookResult{
			EventID:   event.ID,
			EventType: string(event.Type),
			Processed: false,
			Message:   "Event already processed",
		}, nil
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "customer.subscription.created":
		err = s.handleSubscriptionCreated(ctx, event)
	case "customer.subscription.updated":
		err = s.handleSubscriptionUpdated(ctx, event)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, event)
	case "invoice.paid":
		err = s.handleInvoicePaid(ctx, event)
	case "invoice.payment_failed":
		err = s.handleInvoicePaymentFailed(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	if _, err := s.webhookEvents.MarkProcessed(ctx, event.ID, string(event.Type)); err != nil {
		return nil, fmt.Errorf("failed to record webhook event: %w", err)
	}

	return result, nil
}

// handleSubscriptionCreated handles customer.subscription.created events
func (s *StripeWebhookService) handleSubscriptionCreated(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if stripeSub.Customer != nil {
		customerID = stripeSub.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Subscription has no customer ID, skipping",
			zap.String("subscription_id", stripeSub.ID))
		return nil
	}

	sub, err := s.subscriptionRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			// Webhooks may arrive before checkout completion is recorded
			// or for customers not in our system. Acknowledge receipt to
			// prevent Stripe retries.
			s.logger.Warn("No subscription found for Stripe customer",
				zap.String("customer_id", customerID))
			return nil
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	sub.LinkStripe(customerID, stripeSub.ID)

	if planCode, ok := s.planFromStripeSubscription(&stripeSub); ok {
		if sub.PlanCode != planCode {
			if err := sub.ChangePlan(planCode); err != nil {
				s.logger.Warn("Failed to change plan from webhook",
					zap.String("plan_code", string(planCode)),
					zap.Error(err))
			}
		}
	}

	if stripeSub.CurrentPeriodStart > 0 && stripeSub.CurrentPeriodEnd > 0 {
		start := time.Unix(stripeSub.CurrentPeriodStart, 0)
		end := time.Unix(stripeSub.CurrentPeriodEnd, 0)
		if err := sub.RenewPeriod(start, end); err != nil {
			s.logger.Warn("Failed to set billing period from webhook", zap.Error(err))
		}
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("Subscription created processed successfully",
		zap.String("agency_id", sub.AgencyID.String()),
		zap.String("subscription_id", stripeSub.ID))

	return nil
}

// handleSubscriptionUpdated handles customer.subscription.updated events
func (s *StripeWebhookService) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	sub, err := s.findByStripeIDs(ctx, &stripeSub)
	if err != nil || sub == nil {
		return err
	}

	if sub.StripeSubscriptionID != stripeSub.ID {
		sub.LinkStripe(sub.StripeCustomerID, stripeSub.ID)
	}

	if planCode, ok := s.planFromStripeSubscription(&stripeSub); ok {
		if sub.PlanCode != planCode {
			if err := sub.ChangePlan(planCode); err != nil {
				s.logger.Warn("Failed to change plan from webhook",
					zap.String("plan_code", string(planCode)),
					zap.Error(err))
			}
		}
	}

	switch stripeSub.Status {
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		if err := sub.MarkPastDue(); err != nil {
			s.logger.Warn("Failed to mark subscription past due", zap.Error(err))
		}
	case stripe.SubscriptionStatusCanceled:
		// Handled by the subscription.deleted event
		s.logger.Info("Subscription canceled upstream",
			zap.String("agency_id", sub.AgencyID.String()))
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("Subscription updated processed successfully",
		zap.String("agency_id", sub.AgencyID.String()),
		zap.String("subscription_id", stripeSub.ID))

	return nil
}

// handleSubscriptionDeleted handles customer.subscription.deleted events
func (s *StripeWebhookService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	sub, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, stripeSub.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("No subscription found for Stripe subscription",
				zap.String("subscription_id", stripeSub.ID))
			return nil
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	if err := sub.Cancel(); err != nil {
		// Already cancelled locally; nothing left to do
		s.logger.Info("Subscription already cancelled",
			zap.String("agency_id", sub.AgencyID.String()))
		return nil
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("Subscription deleted processed successfully",
		zap.String("agency_id", sub.AgencyID.String()),
		zap.String("subscription_id", stripeSub.ID))

	return nil
}

// handleInvoicePaid handles invoice.paid events. A paid subscription
// invoice renews the billing period and grants the plan's monthly
// token allowance.
func (s *StripeWebhookService) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Invoice has no customer ID, skipping",
			zap.String("invoice_id", invoice.ID))
		return nil
	}

	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping")
		return nil
	}

	sub, err := s.subscriptionRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("No subscription found for Stripe customer",
				zap.String("customer_id", customerID))
			return nil
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	if invoice.PeriodStart > 0 && invoice.PeriodEnd > 0 {
		start := time.Unix(invoice.PeriodStart, 0)
		end := time.Unix(invoice.PeriodEnd, 0)
		if err := sub.RenewPeriod(start, end); err != nil {
			return fmt.Errorf("failed to renew period: %w", err)
		}
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	subID := sub.ID
	allowance := sub.Plan().MonthlyTokens
	if _, err := s.tokens.Grant(ctx, sub.AgencyID, allowance, SourceTypeSubscription, &subID, "monthly allowance"); err != nil {
		return fmt.Errorf("failed to grant monthly tokens: %w", err)
	}

	s.logger.Info("Invoice paid processed successfully",
		zap.String("agency_id", sub.AgencyID.String()),
		zap.String("invoice_id", invoice.ID),
		zap.Int64("tokens_granted", allowance))

	return nil
}

// handleInvoicePaymentFailed handles invoice.payment_failed events
func (s *StripeWebhookService) handleInvoicePaymentFailed(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Invoice has no customer ID, skipping",
			zap.String("invoice_id", invoice.ID))
		return nil
	}

	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping")
		return nil
	}

	sub, err := s.subscriptionRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("No subscription found for Stripe customer",
				zap.String("customer_id", customerID))
			return nil
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	if err := sub.MarkPastDue(); err != nil {
		s.logger.Warn("Failed to mark subscription past due", zap.Error(err))
		return nil
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Warn("Invoice payment failed, subscription past due",
		zap.String("agency_id", sub.AgencyID.String()),
		zap.String("invoice_id", invoice.ID))

	return nil
}

// findByStripeIDs resolves a local subscription by Stripe subscription
// ID, falling back to the customer ID. Returns nil without error when
// neither resolves, so the webhook is acknowledged.
func (s *StripeWebhookService) findByStripeIDs(ctx context.Context, stripeSub *stripe.Subscription) (*billing.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, stripeSub.ID)
	if err == nil {
		return sub, nil
	}
	if err != shared.ErrNotFound {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	customerID := ""
	if stripeSub.Customer != nil {
		customerID = stripeSub.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("No subscription found and no customer ID available",
			zap.String("subscription_id", stripeSub.ID))
		return nil, nil
	}

	sub, err = s.subscriptionRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("No subscription found for Stripe customer",
				zap.String("customer_id", customerID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return sub, nil
}

// planFromStripeSubscription maps the subscription's price ID (or the
// plan_code metadata set at checkout) to a catalog plan
func (s *StripeWebhookService) planFromStripeSubscription(stripeSub *stripe.Subscription) (billing.PlanCode, bool) {
	if code, ok := stripeSub.Metadata["plan_code"]; ok && code != "" {
		if billing.ValidatePlanCode(billing.PlanCode(code)) == nil {
			return billing.PlanCode(code), true
		}
	}

	if stripeSub.Items != nil {
		for _, item := range stripeSub.Items.Data {
			if item.Price == nil {
				continue
			}
			if code, ok := s.config.PlanForPriceID(item.Price.ID); ok {
				return billing.PlanCode(code), true
			}
		}
	}

	return "", false
}
