package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// PostService handles post lifecycle operations up to the publish handoff.
// The actual fan-out to social accounts lives in the social context.
type PostService struct {
	postRepo     campaign.PostRepository
	campaignRepo campaign.Repository
	audit        *appaudit.Service
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(postRepo campaign.PostRepository, campaignRepo campaign.Repository, auditSvc *appaudit.Service, logger *zap.Logger) *PostService {
	return &PostService{
		postRepo:     postRepo,
		campaignRepo: campaignRepo,
		audit:        auditSvc,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *PostService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *PostService) publishEvents(ctx context.Context, post *campaign.Post) {
	if s.events == nil {
		return
	}
	for _, event := range post.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	post.ClearDomainEvents()
}

// CreatePostInput contains input for creating a post
type CreatePostInput struct {
	CampaignID uuid.UUID `json:"campaign_id" binding:"required"`
	Title      string    `json:"title" binding:"required"`
	Body       string    `json:"body" binding:"required"`
	Hashtags   []string  `json:"hashtags"`
	MediaKeys  []string  `json:"media_keys"`
	Platforms  []string  `json:"platforms" binding:"required,min=1"`
	CreatedBy  uuid.UUID
	RequestIP  string
}

// CreatePost creates a draft post under a non-archived campaign
func (s *PostService) CreatePost(ctx context.Context, agencyID uuid.UUID, input CreatePostInput) (*PostDTO, error) {
	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, input.CampaignID)
	if err != nil {
		return nil, err
	}
	if camp.IsArchived() {
		return nil, shared.NewDomainError("CAMPAIGN_ARCHIVED", "Cannot add posts to an archived campaign")
	}

	post, err := campaign.NewPost(agencyID, input.CampaignID, input.CreatedBy, input.Title, input.Body, toPlatforms(input.Platforms))
	if err != nil {
		return nil, err
	}
	if len(input.Hashtags) > 0 || len(input.MediaKeys) > 0 {
		if err := post.UpdateContent(input.Title, input.Body, input.Hashtags, input.MediaKeys, post.Platforms); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, post)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &input.CreatedBy,
		Action:     audit.ActionPostCreated,
		EntityType: "post",
		EntityID:   post.ID,
		Metadata:   map[string]interface{}{"campaign_id": post.CampaignID, "title": post.Title},
		RequestIP:  input.RequestIP,
	})

	return ToPostDTO(post), nil
}

// GetPost returns a post scoped to the agency
func (s *PostService) GetPost(ctx context.Context, agencyID, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.postRepo.FindByIDForAgency(ctx, agencyID, postID)
	if err != nil {
		return nil, err
	}
	return ToPostDTO(post), nil
}

// ListPosts returns the agency's posts matching the filter
func (s *PostService) ListPosts(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[PostDTO], error) {
	posts, err := s.postRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(toPostDTOs(posts), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByCampaign returns a campaign's posts
func (s *PostService) ListByCampaign(ctx context.Context, agencyID, campaignID uuid.UUID, filter shared.Filter) ([]PostDTO, error) {
	posts, err := s.postRepo.FindByCampaign(ctx, agencyID, campaignID, filter)
	if err != nil {
		return nil, err
	}
	return toPostDTOs(posts), nil
}

// Calendar returns scheduled posts in [from, to] for the planning view
func (s *PostService) Calendar(ctx context.Context, agencyID uuid.UUID, from, to time.Time) ([]PostDTO, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Range end cannot be before range start")
	}

	posts, err := s.postRepo.FindScheduledInRange(ctx, agencyID, from, to)
	if err != nil {
		return nil, err
	}
	return toPostDTOs(posts), nil
}

// UpdatePostInput contains input for updating a draft post
type UpdatePostInput struct {
	Title     string   `json:"title" binding:"required"`
	Body      string   `json:"body" binding:"required"`
	Hashtags  []string `json:"hashtags"`
	MediaKeys []string `json:"media_keys"`
	Platforms []string `json:"platforms" binding:"required,min=1"`
	ActorID   uuid.UUID
	RequestIP string
}

// UpdatePost updates a draft post's content
func (s *PostService) UpdatePost(ctx context.Context, agencyID, postID uuid.UUID, input UpdatePostInput) (*PostDTO, error) {
	post, err := s.postRepo.FindByIDForAgency(ctx, agencyID, postID)
	if err != nil {
		return nil, err
	}

	if err := post.UpdateContent(input.Title, input.Body, input.Hashtags, input.MediaKeys, toPlatforms(input.Platforms)); err != nil {
		return nil, err
	}
	if err := s.postRepo.SaveWithLock(ctx, post); err != nil {
		return nil, err
	}

	return ToPostDTO(post), nil
}

// SchedulePost schedules a draft post. The time must be in the future and
// within the campaign window, and the content must pass platform validation.
func (s *PostService) SchedulePost(ctx context.Context, agencyID, actorID, postID uuid.UUID, at time.Time) (*PostDTO, error) {
	post, err := s.postRepo.FindByIDForAgency(ctx, agencyID, postID)
	if err != nil {
		return nil, err
	}

	camp, err := s.campaignRepo.FindByIDForAgency(ctx, agencyID, post.CampaignID)
	if err != nil {
		return nil, err
	}

	if err := post.Schedule(at, camp); err != nil {
		return nil, err
	}
	if err := s.postRepo.SaveWithLock(ctx, post); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, post)

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     audit.ActionPostScheduled,
		EntityType: "post",
		EntityID:   postID,
		Metadata:   map[string]interface{}{"scheduled_at": at},
	})

	return ToPostDTO(post), nil
}

// UnschedulePost returns a scheduled post to draft
func (s *PostService) UnschedulePost(ctx context.Context, agencyID, actorID, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.postRepo.FindByIDForAgency(ctx, agencyID, postID)
	if err != nil {
		return nil, err
	}

	if err := post.Unschedule(); err != nil {
		return nil, err
	}
	if err := s.postRepo.SaveWithLock(ctx, post); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, post)

	return ToPostDTO(post), nil
}

// RetryPost returns a failed post to draft for another attempt
func (s *PostService) RetryPost(ctx context.Context, agencyID, actorID, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.postRepo.FindByIDForAgency(ctx, agencyID, postID)
	if err != nil {
		return nil, err
	}

	if err := post.RetryFromFailed(); err != nil {
		return nil, err
	}
	if err := s.postRepo.SaveWithLock(ctx, post); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, post)

	return ToPostDTO(post), nil
}

// DeletePost deletes a draft post
func (s *PostService) DeletePost(ctx context.Context, agencyID, actorID, postID uuid.UUID, requestIP string) error {
	post, err := s.postRepo.FindByIDForAgency(ctx, agencyID, postID)
	if err != nil {
		return err
	}
	if !post.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft posts can be deleted")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.audit.Record(ctx, appaudit.Entry{
		AgencyID:   agencyID,
		ActorID:    &actorID,
		Action:     "post.deleted",
		EntityType: "post",
		EntityID:   postID,
		Metadata:   map[string]interface{}{"title": post.Title},
		RequestIP:  requestIP,
	})

	return nil
}

func toPostDTOs(posts []campaign.Post) []PostDTO {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		dtos[i] = *ToPostDTO(&posts[i])
	}
	return dtos
}
