package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// MockSubscriptionRepository is a mock implementation of billing.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*billing.Subscription, error) {
	args := m.Called(ctx, stripeSubscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*billing.Subscription, error) {
	args := m.Called(ctx, stripeCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, subscription *billing.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) SaveWithLock(ctx context.Context, subscription *billing.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of billing.LedgerRepository.
// Append invokes the apply callback with the mocked balance so entry
// construction runs for real.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, agencyID uuid.UUID, apply func(balanceBefore int64) (*billing.LedgerEntry, error)) (*billing.LedgerEntry, error) {
	args := m.Called(ctx, agencyID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return apply(args.Get(0).(int64))
}

func (m *MockLedgerRepository) Balance(ctx context.Context, agencyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, agencyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]billing.LedgerEntry, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]billing.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockWebhookEventRepository is a mock implementation of billing.WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) IsProcessed(ctx context.Context, providerEventID string) (bool, error) {
	args := m.Called(ctx, providerEventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookEventRepository) MarkProcessed(ctx context.Context, providerEventID, eventType string) (bool, error) {
	args := m.Called(ctx, providerEventID, eventType)
	return args.Bool(0), args.Error(1)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCustomer(ctx context.Context, agencyID uuid.UUID, name, email string) (string, error) {
	args := m.Called(ctx, agencyID, name, email)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, agencyID uuid.UUID, customerID, planCode string) (string, error) {
	args := m.Called(ctx, agencyID, customerID, planCode)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

var (
	_ billing.SubscriptionRepository = (*MockSubscriptionRepository)(nil)
	_ billing.LedgerRepository       = (*MockLedgerRepository)(nil)
	_ billing.WebhookEventRepository = (*MockWebhookEventRepository)(nil)
	_ PaymentGateway                 = (*MockPaymentGateway)(nil)
)
