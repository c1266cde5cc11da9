package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/shared"
)

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]campaign.Campaign, error) {
	args := m.Called(ctx, agencyID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindOverlapping(ctx context.Context, agencyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]campaign.Campaign, error) {
	args := m.Called(ctx, agencyID, from, to, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*campaign.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Post), args.Error(1)
}

func (m *MockPostRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*campaign.Post, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Post), args.Error(1)
}

func (m *MockPostRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]campaign.Post, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]campaign.Post), args.Error(1)
}

func (m *MockPostRepository) FindByCampaign(ctx context.Context, agencyID, campaignID uuid.UUID, filter shared.Filter) ([]campaign.Post, error) {
	args := m.Called(ctx, agencyID, campaignID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]campaign.Post), args.Error(1)
}

func (m *MockPostRepository) FindScheduledInRange(ctx context.Context, agencyID uuid.UUID, from, to time.Time) ([]campaign.Post, error) {
	args := m.Called(ctx, agencyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]campaign.Post), args.Error(1)
}

func (m *MockPostRepository) FindDueScheduled(ctx context.Context, before time.Time, limit int) ([]campaign.Post, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]campaign.Post), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, post *campaign.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) SaveWithLock(ctx context.Context, post *campaign.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

var (
	_ campaign.Repository     = (*MockCampaignRepository)(nil)
	_ campaign.PostRepository = (*MockPostRepository)(nil)
	_ client.Repository       = (*MockClientRepository)(nil)
	_ ObjectStorage           = (*MockObjectStorage)(nil)
)
