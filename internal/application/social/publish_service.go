package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
)

// MediaResolver turns stored media keys into downloadable URLs for the
// platform adapters. Satisfied by the campaign media service.
type MediaResolver interface {
	DownloadURLs(ctx context.Context, agencyID uuid.UUID, storageKeys []string) ([]campaignapp.MediaURLDTO, error)
}

// PublishResultDTO is the outcome of publishing one post
type PublishResultDTO struct {
	Post         campaignapp.PostDTO `json:"post"`
	Publications []PublicationDTO    `json:"publications"`
}

// PublishServiceConfig holds dependencies for the publish service
type PublishServiceConfig struct {
	PostRepo        campaign.PostRepository
	CampaignRepo    campaign.Repository
	AccountRepo     social.AccountRepository
	PublicationRepo social.PublicationRepository
	Registry        PublisherRegistry
	Media           MediaResolver
	Audit           *appaudit.Service
	Logger          *zap.Logger
}

// PublishService fans a post out to its target platforms' connected
// accounts and aggregates the per-account outcomes.
type PublishService struct {
	postRepo        campaign.PostRepository
	campaignRepo    campaign.Repository
	accountRepo     social.AccountRepository
	publicationRepo social.PublicationRepository
	registry        PublisherRegistry
	media           MediaResolver
	audit           *appaudit.Service
	events          shared.EventPublisher
	logger          *zap.Logger
}

// NewPublishService creates a new publish service
func NewPublishService(cfg PublishServiceConfig) *PublishService {
	return &PublishService{
		postRepo:        cfg.PostRepo,
		campaignRepo:    cfg.CampaignRepo,
		accountRepo:     cfg.AccountRepo,
		publicationRepo: cfg.PublicationRepo,
		registry:        cfg.Registry,
		media:           cfg.Media,
		audit:           cfg.Audit,
		logger:          cfg.Logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *PublishService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *PublishService) publishEvents(ctx context.Context, post *campaign.Post) {
	if s.events == nil {
		return
	}
	for _, event := range post.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	post.ClearDomainEvents()
}

// PublishPost publishes a draft or scheduled post now. Content is
// validated against every target platform before any state changes.
// Outcomes aggregate as: all accounts succeeded or some failed while at
// least one succeeded, the post is published (partial failures are kept
// in the failure reason); every account failed, the post is failed.
func (s *PublishService) PublishPost(ctx context.Context, agencyID uuid.UUID, actorID *uuid.UUID, postID uuid.UUID) (*PublishResultDTO, error) {
	post, err := s.postRepo.FindByIDForAgency(ctx, agencyID, postID)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, actorID, post)
}

// PublishDueScheduled publishes scheduled posts whose time has arrived.
// It returns the number of posts processed. Used by the worker loop.
func (s *PublishService) PublishDueScheduled(ctx context.Context, limit int) (int, error) {
	posts, err := s.postRepo.FindDueScheduled(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range posts {
		post := &posts[i]
		if _, err := s.publish(ctx, nil, post); err != nil {
			s.logger.Error("scheduled publish failed",
				zap.String("post_id", post.ID.String()),
				zap.Error(err))
			continue
		}
		processed++
	}
	return processed, nil
}

// ListPublications returns the publish attempts recorded for a post
func (s *PublishService) ListPublications(ctx context.Context, agencyID, postID uuid.UUID) ([]PublicationDTO, error) {
	if _, err := s.postRepo.FindByIDForAgency(ctx, agencyID, postID); err != nil {
		return nil, err
	}

	publications, err := s.publicationRepo.FindByPost(ctx, agencyID, postID)
	if err != nil {
		return nil, err
	}

	dtos := make([]PublicationDTO, len(publications))
	for i := range publications {
		dtos[i] = *ToPublicationDTO(&publications[i])
	}
	return dtos, nil
}

type publishTarget struct {
	platform social.Platform
	account  *social.Account
}

func (s *PublishService) publish(ctx context.Context, actorID *uuid.UUID, post *campaign.Post) (*PublishResultDTO, error) {
	if err := post.ValidateForPlatforms(); err != nil {
		return nil, err
	}

	camp, err := s.campaignRepo.FindByIDForAgency(ctx, post.AgencyID, post.CampaignID)
	if err != nil {
		return nil, err
	}

	targets, missing, err := s.resolveTargets(ctx, post, camp.ClientID)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, shared.NewDomainError("NO_CONNECTED_ACCOUNTS", "No connected accounts for the post's target platforms")
	}

	mediaURLs, err := s.resolveMediaURLs(ctx, post)
	if err != nil {
		return nil, err
	}

	if err := post.MarkPublishing(); err != nil {
		return nil, err
	}
	if err := s.postRepo.SaveWithLock(ctx, post); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, post)

	content := PublishContent{
		Body:      post.Body,
		Hashtags:  post.Hashtags,
		MediaURLs: mediaURLs,
	}

	publications := make([]PublicationDTO, 0, len(targets))
	failures := append([]string{}, missing...)
	succeeded := 0

	for _, target := range targets {
		pub, pubErr := s.publishToAccount(ctx, post, target, content)
		if pub != nil {
			publications = append(publications, *ToPublicationDTO(pub))
		}
		if pubErr != nil {
			failures = append(failures, fmt.Sprintf("%s (@%s): %s", target.platform, target.account.Handle, pubErr.Error()))
			continue
		}
		succeeded++
	}

	failureDetail := strings.Join(failures, "; ")
	if succeeded > 0 {
		err = post.MarkPublished(failureDetail)
	} else {
		err = post.MarkFailed(failureDetail)
	}
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.SaveWithLock(ctx, post); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, post)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   post.AgencyID,
		ActorID:    actorID,
		Action:     audit.ActionPostPublished,
		EntityType: "post",
		EntityID:   post.ID,
		Metadata: map[string]interface{}{
			"status":    string(post.Status),
			"succeeded": succeeded,
			"failed":    len(failures),
		},
	})

	return &PublishResultDTO{
		Post:         *campaignapp.ToPostDTO(post),
		Publications: publications,
	}, nil
}

// resolveTargets finds the connected account for each target platform.
// Platforms without a usable account become failure notes, not errors.
func (s *PublishService) resolveTargets(ctx context.Context, post *campaign.Post, clientID uuid.UUID) ([]publishTarget, []string, error) {
	targets := make([]publishTarget, 0, len(post.Platforms))
	var missing []string

	for _, platform := range post.Platforms {
		account, err := s.accountRepo.FindByClientAndPlatform(ctx, post.AgencyID, clientID, platform)
		if err != nil {
			if err == shared.ErrNotFound {
				missing = append(missing, fmt.Sprintf("%s: no connected account", platform))
				continue
			}
			return nil, nil, err
		}
		if !account.IsUsable() {
			missing = append(missing, fmt.Sprintf("%s (@%s): account not usable", platform, account.Handle))
			continue
		}
		targets = append(targets, publishTarget{platform: platform, account: account})
	}

	return targets, missing, nil
}

func (s *PublishService) resolveMediaURLs(ctx context.Context, post *campaign.Post) ([]string, error) {
	if len(post.MediaKeys) == 0 {
		return nil, nil
	}

	resolved, err := s.media.DownloadURLs(ctx, post.AgencyID, post.MediaKeys)
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(resolved))
	for i, m := range resolved {
		urls[i] = m.URL
	}
	return urls, nil
}

// publishToAccount records one publication row around a single publish
// attempt. The returned error carries the platform failure, if any.
func (s *PublishService) publishToAccount(ctx context.Context, post *campaign.Post, target publishTarget, content PublishContent) (*social.Publication, error) {
	pub, err := social.NewPublication(post.AgencyID, post.ID, target.account.ID, target.platform)
	if err != nil {
		return nil, err
	}

	publisher, err := s.registry.For(target.platform)
	if err != nil {
		s.resolvePublication(ctx, pub, "", err)
		return pub, err
	}

	externalID, err := publisher.Publish(ctx, target.account, content)
	s.resolvePublication(ctx, pub, externalID, err)
	return pub, err
}

func (s *PublishService) resolvePublication(ctx context.Context, pub *social.Publication, externalID string, publishErr error) {
	var err error
	if publishErr != nil {
		err = pub.MarkFailed(publishErr.Error())
	} else {
		err = pub.MarkSucceeded(externalID)
	}
	if err != nil {
		s.logger.Error("failed to resolve publication", zap.Error(err))
		return
	}

	if err := s.publicationRepo.Save(ctx, pub); err != nil {
		s.logger.Error("failed to save publication",
			zap.String("post_id", pub.PostID.String()),
			zap.Error(err))
	}
}
