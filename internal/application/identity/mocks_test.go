package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// MockAgencyRepository is a mock implementation of identity.AgencyRepository
type MockAgencyRepository struct {
	mock.Mock
}

func (m *MockAgencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Agency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Agency), args.Error(1)
}

func (m *MockAgencyRepository) FindBySlug(ctx context.Context, slug string) (*identity.Agency, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Agency), args.Error(1)
}

func (m *MockAgencyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Agency, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Agency), args.Error(1)
}

func (m *MockAgencyRepository) Save(ctx context.Context, agency *identity.Agency) error {
	args := m.Called(ctx, agency)
	return args.Error(0)
}

func (m *MockAgencyRepository) SaveWithLock(ctx context.Context, agency *identity.Agency) error {
	args := m.Called(ctx, agency)
	return args.Error(0)
}

func (m *MockAgencyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAgencyRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, agencyID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailGlobal(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountOwners(ctx context.Context, agencyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, agencyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, agencyID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, agencyID, email)
	return args.Bool(0), args.Error(1)
}

// MockInvitationRepository is a mock implementation of identity.InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.Invitation, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*identity.Invitation, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindPendingByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*identity.Invitation, error) {
	args := m.Called(ctx, agencyID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.Invitation, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]identity.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Save(ctx context.Context, invitation *identity.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) SaveWithLock(ctx context.Context, invitation *identity.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockAPIKeyRepository is a mock implementation of identity.APIKeyRepository
type MockAPIKeyRepository struct {
	mock.Mock
}

func (m *MockAPIKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.APIKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.APIKey, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) FindByKeyHash(ctx context.Context, keyHash string) (*identity.APIKey, error) {
	args := m.Called(ctx, keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.APIKey, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]identity.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) Save(ctx context.Context, key *identity.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) SaveWithLock(ctx context.Context, key *identity.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

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

// MockLedgerRepository is a mock implementation of billing.LedgerRepository
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

// MockClientRepository is a mock implementation of client.Repository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindBySlug(ctx context.Context, agencyID uuid.UUID, slug string) (*client.Client, error) {
	args := m.Called(ctx, agencyID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]client.Client, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]client.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) ExistsBySlug(ctx context.Context, agencyID uuid.UUID, slug string) (bool, error) {
	args := m.Called(ctx, agencyID, slug)
	return args.Bool(0), args.Error(1)
}

// MockCampaignRepository is a mock implementation of campaign.Repository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*campaign.Campaign, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]campaign.Campaign, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]campaign.Campaign, error) {
	args := m.Called(ctx, agencyID, clientID, filter)
	return args.Get(0).([]campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindOverlapping(ctx context.Context, agencyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]campaign.Campaign, error) {
	args := m.Called(ctx, agencyID, from, to, filter)
	return args.Get(0).([]campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Save(ctx context.Context, c *campaign.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) SaveWithLock(ctx context.Context, c *campaign.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCampaignRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCampaignRepository) CountActiveByClient(ctx context.Context, agencyID, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, agencyID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ identity.AgencyRepository     = (*MockAgencyRepository)(nil)
	_ identity.UserRepository       = (*MockUserRepository)(nil)
	_ identity.InvitationRepository = (*MockInvitationRepository)(nil)
	_ identity.APIKeyRepository     = (*MockAPIKeyRepository)(nil)
	_ billing.SubscriptionRepository = (*MockSubscriptionRepository)(nil)
	_ billing.LedgerRepository       = (*MockLedgerRepository)(nil)
	_ client.Repository              = (*MockClientRepository)(nil)
	_ campaign.Repository            = (*MockCampaignRepository)(nil)
)
