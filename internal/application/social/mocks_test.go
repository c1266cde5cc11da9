package social

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*social.Account, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]social.Account, error) {
	args := m.Called(ctx, agencyID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]social.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByClientAndPlatform(ctx context.Context, agencyID, clientID uuid.UUID, platform social.Platform) (*social.Account, error) {
	args := m.Called(ctx, agencyID, clientID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]social.Account, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]social.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *social.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *social.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublicationRepository struct {
	mock.Mock
}

func (m *MockPublicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Publication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Publication), args.Error(1)
}

func (m *MockPublicationRepository) FindByPost(ctx context.Context, agencyID, postID uuid.UUID) ([]social.Publication, error) {
	args := m.Called(ctx, agencyID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]social.Publication), args.Error(1)
}

func (m *MockPublicationRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]social.Publication, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]social.Publication), args.Error(1)
}

func (m *MockPublicationRepository) Save(ctx context.Context, publication *social.Publication) error {
	args := m.Called(ctx, publication)
	return args.Error(0)
}

func (m *MockPublicationRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
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

type MockTokenRefresher struct {
	mock.Mock
}

func (m *MockTokenRefresher) Refresh(ctx context.Context, account *social.Account) (*RefreshedTokens, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RefreshedTokens), args.Error(1)
}

// fakePublisher scripts per-handle outcomes for one platform
type fakePublisher struct {
	platform social.Platform
	results  map[string]string // handle -> external ID
	errs     map[string]error  // handle -> failure
}

func (f *fakePublisher) Platform() social.Platform {
	return f.platform
}

func (f *fakePublisher) Publish(ctx context.Context, account *social.Account, content PublishContent) (string, error) {
	if err, ok := f.errs[account.Handle]; ok {
		return "", err
	}
	return f.results[account.Handle], nil
}

// fakeRegistry maps platforms to fake publishers
type fakeRegistry struct {
	publishers map[social.Platform]Publisher
}

func (f *fakeRegistry) For(platform social.Platform) (Publisher, error) {
	p, ok := f.publishers[platform]
	if !ok {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "No publisher registered for "+string(platform))
	}
	return p, nil
}

// fakeMediaResolver returns a stable URL per key
type fakeMediaResolver struct{}

func (fakeMediaResolver) DownloadURLs(ctx context.Context, agencyID uuid.UUID, storageKeys []string) ([]campaignapp.MediaURLDTO, error) {
	urls := make([]campaignapp.MediaURLDTO, len(storageKeys))
	for i, key := range storageKeys {
		urls[i] = campaignapp.MediaURLDTO{StorageKey: key, URL: "https://cdn.example/" + key}
	}
	return urls, nil
}

var (
	_ social.AccountRepository     = (*MockAccountRepository)(nil)
	_ social.PublicationRepository = (*MockPublicationRepository)(nil)
	_ campaign.PostRepository      = (*MockPostRepository)(nil)
	_ campaign.Repository          = (*MockCampaignRepository)(nil)
	_ client.Repository            = (*MockClientRepository)(nil)
	_ TokenRefresher               = (*MockTokenRefresher)(nil)
	_ Publisher                    = (*fakePublisher)(nil)
	_ PublisherRegistry            = (*fakeRegistry)(nil)
	_ MediaResolver                = (*fakeMediaResolver)(nil)
)
