package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
)

type publishServiceEnv struct {
	service      *PublishService
	posts        *MockPostRepository
	camps        *MockCampaignRepository
	accounts     *MockAccountRepository
	publications *MockPublicationRepository
	registry     *fakeRegistry
	auditLog     *auditRepoStub
}

func newPublishServiceEnv() *publishServiceEnv {
	env := &publishServiceEnv{
		posts:        new(MockPostRepository),
		camps:        new(MockCampaignRepository),
		accounts:     new(MockAccountRepository),
		publications: new(MockPublicationRepository),
		registry:     &fakeRegistry{publishers: make(map[social.Platform]Publisher)},
		auditLog:     &auditRepoStub{},
	}
	env.service = NewPublishService(PublishServiceConfig{
		PostRepo:        env.posts,
		CampaignRepo:    env.camps,
		AccountRepo:     env.accounts,
		PublicationRepo: env.publications,
		Registry:        env.registry,
		Media:           fakeMediaResolver{},
		Audit:           appaudit.NewService(env.auditLog, zap.NewNop()),
		Logger:          zap.NewNop(),
	})
	return env
}

type publishFixture struct {
	camp *campaign.Campaign
	post *campaign.Post
}

func newPublishFixture(t *testing.T, agencyID uuid.UUID, platforms []social.Platform) publishFixture {
	start := time.Now().Add(-24 * time.Hour)
	end := time.Now().Add(30 * 24 * time.Hour)
	camp, err := campaign.NewCampaign(agencyID, uuid.New(), uuid.New(), "Summer Launch", decimal.NewFromInt(5000), start, end)
	require.NoError(t, err)

	post, err := campaign.NewPost(agencyID, camp.ID, uuid.New(), "Cold brew teaser", "Something cold is coming.", platforms)
	require.NoError(t, err)

	return publishFixture{camp: camp, post: post}
}

func TestPublishService_PublishPost(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	actorID := uuid.New()

	t.Run("publishes to every connected account", func(t *testing.T) {
		env := newPublishServiceEnv()
		fx := newPublishFixture(t, agencyID, []social.Platform{social.PlatformTwitter, social.PlatformLinkedIn})

		twitterAcc := connectedAccount(t, agencyID, fx.camp.ClientID, social.PlatformTwitter)
		linkedinAcc := connectedAccount(t, agencyID, fx.camp.ClientID, social.PlatformLinkedIn)

		env.posts.On("FindByIDForAgency", ctx, agencyID, fx.post.ID).Return(fx.post, nil)
		env.camps.On("FindByIDForAgency", ctx, agencyID, fx.camp.ID).Return(fx.camp, nil)
		env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformTwitter).Return(twitterAcc, nil)
		env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformLinkedIn).Return(linkedinAcc, nil)
		env.posts.On("SaveWithLock", ctx, fx.post).Return(nil)
		env.publications.On("Save", ctx, mock.AnythingOfType("*social.Publication")).Return(nil)

		env.registry.publishers[social.PlatformTwitter] = &fakePublisher{
			platform: social.PlatformTwitter,
			results:  map[string]string{"acmecoffee": "tw-123"},
		}
		env.registry.publishers[social.PlatformLinkedIn] = &fakePublisher{
			platform: social.PlatformLinkedIn,
			results:  map[string]string{"acmecoffee": "li-456"},
		}

		result, err := env.service.PublishPost(ctx, agencyID, &actorID, fx.post.ID)

		require.NoError(t, err)
		assert.Equal(t, string(campaign.PostStatusPublished), result.Post.Status)
		assert.Empty(t, result.Post.FailureReason)
		require.Len(t, result.Publications, 2)
		for _, pub := range result.Publications {
			assert.Equal(t, string(social.PublicationStatusSucceeded), pub.Status)
		}
		require.NotEmpty(t, env.auditLog.entries)
		assert.Equal(t, "post.published", env.auditLog.entries[0].Action)
	})

	t.Run("partial failure publishes with failure details", func(t *testing.T) {
		env := newPublishServiceEnv()
		fx := newPublishFixture(t, agencyID, []social.Platform{social.PlatformTwitter, social.PlatformLinkedIn})

		twitterAcc := connectedAccount(t, agencyID, fx.camp.ClientID, social.PlatformTwitter)
		linkedinAcc := connectedAccount(t, agencyID, fx.camp.ClientID, social.PlatformLinkedIn)

		env.posts.On("FindByIDForAgency", ctx, agencyID, fx.post.ID).Return(fx.post, nil)
		env.camps.On("FindByIDForAgency", ctx, agencyID, fx.camp.ID).Return(fx.camp, nil)
		env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformTwitter).Return(twitterAcc, nil)
		env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformLinkedIn).Return(linkedinAcc, nil)
		env.posts.On("SaveWithLock", ctx, fx.post).Return(nil)
		env.publications.On("Save", ctx, mock.AnythingOfType("*social.Publication")).Return(nil)

		env.registry.publishers[social.PlatformTwitter] = &fakePublisher{
			platform: social.PlatformTwitter,
			results:  map[string]string{"acmecoffee": "tw-123"},
		}
		env.registry.publishers[social.PlatformLinkedIn] = &fakePublisher{
			platform: social.PlatformLinkedIn,
			errs:     map[string]error{"acmecoffee": errors.New("rate limited")},
		}

		result, err := env.service.PublishPost(ctx, agencyID, &actorID, fx.post.ID)

		require.NoError(t, err)
		assert.Equal(t, string(campaign.PostStatusPublished), result.Post.Status)
		assert.Contains(t, result.Post.FailureReason, "linkedin")
		assert.Contains(t, result.Post.FailureReason, "rate limited")
	})

	t.Run("all accounts failing marks the post failed", func(t *testing.T) {
		env := newPublishServiceEnv()
		fx := newPublishFixture(t, agencyID, []social.Platform{social.PlatformTwitter})

		twitterAcc := connectedAccount(t, agencyID, fx.camp.ClientID, social.PlatformTwitter)

		env.posts.On("FindByIDForAgency", ctx, agencyID, fx.post.ID).Return(fx.post, nil)
		env.camps.On("FindByIDForAgency", ctx, agencyID, fx.camp.ID).Return(fx.camp, nil)
		env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformTwitter).Return(twitterAcc, nil)
		env.posts.On("SaveWithLock", ctx, fx.post).Return(nil)
		env.publications.On("Save", ctx, mock.AnythingOfType("*social.Publication")).Return(nil)

		env.registry.publishers[social.PlatformTwitter] = &fakePublisher{
			platform: social.PlatformTwitter,
			errs:     map[string]error{"acmecoffee": errors.New("duplicate content")},
		}

		result, err := env.service.PublishPost(ctx, agencyID, &actorID, fx.post.ID)

		require.NoError(t, err)
		assert.Equal(t, string(campaign.PostStatusFailed), result.Post.Status)
		assert.Contains(t, result.Post.FailureReason, "duplicate content")
	})

	t.Run("fails fast when no accounts are connected", func(t *testing.T) {
		env := newPublishServiceEnv()
		fx := newPublishFixture(t, agencyID, []social.Platform{social.PlatformTwitter})

		env.posts.On("FindByIDForAgency", ctx, agencyID, fx.post.ID).Return(fx.post, nil)
		env.camps.On("FindByIDForAgency", ctx, agencyID, fx.camp.ID).Return(fx.camp, nil)
		env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformTwitter).Return(nil, shared.ErrNotFound)

		_, err := env.service.PublishPost(ctx, agencyID, &actorID, fx.post.ID)

		assert.Error(t, err)
		// The post stays a draft.
		assert.Equal(t, campaign.PostStatusDraft, fx.post.Status)
		env.posts.AssertNotCalled(t, "SaveWithLock")
	})

	t.Run("validates content per platform before any state change", func(t *testing.T) {
		env := newPublishServiceEnv()
		// Instagram requires media, so a bare text post must be rejected.
		fx := newPublishFixture(t, agencyID, []social.Platform{social.PlatformInstagram})

		env.posts.On("FindByIDForAgency", ctx, agencyID, fx.post.ID).Return(fx.post, nil)

		_, err := env.service.PublishPost(ctx, agencyID, &actorID, fx.post.ID)

		assert.Error(t, err)
		assert.Equal(t, campaign.PostStatusDraft, fx.post.Status)
		env.camps.AssertNotCalled(t, "FindByIDForAgency")
	})

	t.Run("skips unusable accounts and records the reason", func(t *testing.T) {
		env := newPublishServiceEnv()
		fx := newPublishFixture(t, agencyID, []social.Platform{social.PlatformTwitter, social.PlatformLinkedIn})

		twitterAcc := connectedAccount(t, agencyID, fx.camp.ClientID, social.PlatformTwitter)
		expiredAcc := connectedAccount(t, agencyID, fx.camp.ClientID, social.PlatformLinkedIn)
		require.NoError(t, expiredAcc.MarkExpired())

		env.posts.On("FindByIDForAgency", ctx, agencyID, fx.post.ID).Return(fx.post, nil)
		env.camps.On("FindByIDForAgency", ctx, agencyID, fx.camp.ID).Return(fx.camp, nil)
		env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformTwitter).Return(twitterAcc, nil)
		env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformLinkedIn).Return(expiredAcc, nil)
		env.posts.On("SaveWithLock", ctx, fx.post).Return(nil)
		env.publications.On("Save", ctx, mock.AnythingOfType("*social.Publication")).Return(nil)

		env.registry.publishers[social.PlatformTwitter] = &fakePublisher{
			platform: social.PlatformTwitter,
			results:  map[string]string{"acmecoffee": "tw-123"},
		}

		result, err := env.service.PublishPost(ctx, agencyID, &actorID, fx.post.ID)

		require.NoError(t, err)
		assert.Equal(t, string(campaign.PostStatusPublished), result.Post.Status)
		assert.Contains(t, result.Post.FailureReason, "not usable")
		assert.Len(t, result.Publications, 1)
	})
}

func TestPublishService_PublishDueScheduled(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	env := newPublishServiceEnv()

	fx := newPublishFixture(t, agencyID, []social.Platform{social.PlatformTwitter})
	require.NoError(t, fx.post.Schedule(time.Now().Add(time.Minute), fx.camp))

	twitterAcc := connectedAccount(t, agencyID, fx.camp.ClientID, social.PlatformTwitter)

	env.posts.On("FindDueScheduled", ctx, mock.AnythingOfType("time.Time"), 10).Return([]campaign.Post{*fx.post}, nil)
	env.camps.On("FindByIDForAgency", ctx, agencyID, fx.camp.ID).Return(fx.camp, nil)
	env.accounts.On("FindByClientAndPlatform", ctx, agencyID, fx.camp.ClientID, social.PlatformTwitter).Return(twitterAcc, nil)
	env.posts.On("SaveWithLock", ctx, mock.AnythingOfType("*campaign.Post")).Return(nil)
	env.publications.On("Save", ctx, mock.AnythingOfType("*social.Publication")).Return(nil)

	env.registry.publishers[social.PlatformTwitter] = &fakePublisher{
		platform: social.PlatformTwitter,
		results:  map[string]string{"acmecoffee": "tw-123"},
	}

	processed, err := env.service.PublishDueScheduled(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}
