package campaign

import (
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
	"github.com/google/uuid"
)

// PostStatus represents the status of a post
type PostStatus string

const (
	PostStatusDraft      PostStatus = "draft"
	PostStatusScheduled  PostStatus = "scheduled"
	PostStatusPublishing PostStatus = "publishing"
	PostStatusPublished  PostStatus = "published"
	PostStatusFailed     PostStatus = "failed"
)

// Post represents a social media post within a campaign.
// It is the aggregate root for post-related operations.
type Post struct {
	shared.AgencyAggregateRoot
	CampaignID    uuid.UUID
	Title         string
	Body          string
	Hashtags      []string
	MediaKeys     []string
	Platforms     []social.Platform
	Status        PostStatus
	ScheduledAt   *time.Time
	PublishedAt   *time.Time
	FailureReason string
}

// NewPost creates a new draft post
func NewPost(agencyID, campaignID, createdBy uuid.UUID, title, body string, platforms []social.Platform) (*Post, error) {
	if err := validatePostTitle(title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Post body cannot be empty")
	}
	if campaignID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CAMPAIGN", "Campaign ID cannot be empty")
	}
	if len(platforms) == 0 {
		return nil, shared.NewDomainError("INVALID_PLATFORMS", "Post needs at least one target platform")
	}
	for _, platform := range platforms {
		if err := social.ValidatePlatform(platform); err != nil {
			return nil, err
		}
	}

	post := &Post{
		AgencyAggregateRoot: shared.NewAgencyAggregateRootWithCreator(agencyID, createdBy),
		CampaignID:          campaignID,
		Title:               strings.TrimSpace(title),
		Body:                body,
		Platforms:           dedupePlatforms(platforms),
		Status:              PostStatusDraft,
	}

	post.AddDomainEvent(NewPostCreatedEvent(post))

	return post, nil
}

// UpdateContent updates the post's content. Only draft posts can be edited.
func (p *Post) UpdateContent(title, body string, hashtags, mediaKeys []string, platforms []social.Platform) error {
	if p.Status != PostStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft posts can be edited")
	}
	if err := validatePostTitle(title); err != nil {
		return err
	}
	if strings.TrimSpace(body) == "" {
		return shared.NewDomainError("INVALID_BODY", "Post body cannot be empty")
	}
	if len(platforms) == 0 {
		return shared.NewDomainError("INVALID_PLATFORMS", "Post needs at least one target platform")
	}
	for _, platform := range platforms {
		if err := social.ValidatePlatform(platform); err != nil {
			return err
		}
	}

	p.Title = strings.TrimSpace(title)
	p.Body = body
	p.Hashtags = hashtags
	p.MediaKeys = mediaKeys
	p.Platforms = dedupePlatforms(platforms)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ValidateForPlatforms checks the post's content against every target platform
func (p *Post) ValidateForPlatforms() error {
	for _, platform := range p.Platforms {
		if err := social.ValidateContent(platform, p.Body, p.Hashtags, p.MediaKeys); err != nil {
			return err
		}
	}
	return nil
}

// Schedule schedules a draft post within the campaign window
func (p *Post) Schedule(at time.Time, camp *Campaign) error {
	if p.Status != PostStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft posts can be scheduled")
	}
	if !at.After(time.Now()) {
		return shared.NewDomainError("INVALID_SCHEDULE_TIME", "Scheduled time must be in the future")
	}
	if camp != nil && !camp.ContainsTime(at) {
		return shared.NewDomainError("OUTSIDE_CAMPAIGN_WINDOW", "Scheduled time is outside the campaign window")
	}
	if err := p.ValidateForPlatforms(); err != nil {
		return err
	}

	p.Status = PostStatusScheduled
	p.ScheduledAt = &at
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPostStatusChangedEvent(p, PostStatusDraft, PostStatusScheduled))

	return nil
}

// Unschedule returns a scheduled post to draft
func (p *Post) Unschedule() error {
	if p.Status != PostStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled posts can be unscheduled")
	}

	p.Status = PostStatusDraft
	p.ScheduledAt = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPostStatusChangedEvent(p, PostStatusScheduled, PostStatusDraft))

	return nil
}

// MarkPublishing transitions the post into the publishing state
func (p *Post) MarkPublishing() error {
	if p.Status != PostStatusDraft && p.Status != PostStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Post is not ready to publish")
	}

	oldStatus := p.Status
	p.Status = PostStatusPublishing
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPostStatusChangedEvent(p, oldStatus, PostStatusPublishing))

	return nil
}

// MarkPublished records a publish outcome where at least one account succeeded.
// failureReason carries per-account failure details when some accounts failed.
func (p *Post) MarkPublished(failureReason string) error {
	if p.Status != PostStatusPublishing {
		return shared.NewDomainError("INVALID_STATE", "Post is not being published")
	}

	now := time.Now()
	p.Status = PostStatusPublished
	p.PublishedAt = &now
	p.FailureReason = failureReason
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPostStatusChangedEvent(p, PostStatusPublishing, PostStatusPublished))

	return nil
}

// MarkFailed records a publish outcome where every account failed
func (p *Post) MarkFailed(reason string) error {
	if p.Status != PostStatusPublishing {
		return shared.NewDomainError("INVALID_STATE", "Post is not being published")
	}

	p.Status = PostStatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPostStatusChangedEvent(p, PostStatusPublishing, PostStatusFailed))

	return nil
}

// RetryFromFailed returns a failed post to draft so it can be fixed and retried
func (p *Post) RetryFromFailed() error {
	if p.Status != PostStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Only failed posts can be retried")
	}

	p.Status = PostStatusDraft
	p.FailureReason = ""
	p.ScheduledAt = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsDraft returns true if the post is a draft
func (p *Post) IsDraft() bool {
	return p.Status == PostStatusDraft
}

// IsScheduled returns true if the post is scheduled
func (p *Post) IsScheduled() bool {
	return p.Status == PostStatusScheduled
}

// TargetsPlatform returns true if the post targets the given platform
func (p *Post) TargetsPlatform(platform social.Platform) bool {
	for _, pl := range p.Platforms {
		if pl == platform {
			return true
		}
	}
	return false
}

func validatePostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot exceed 200 characters")
	}
	return nil
}

func dedupePlatforms(platforms []social.Platform) []social.Platform {
	seen := make(map[social.Platform]bool)
	out := make([]social.Platform, 0, len(platforms))
	for _, p := range platforms {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
