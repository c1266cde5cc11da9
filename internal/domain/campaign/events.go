package campaign

import (
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCampaign = "Campaign"
	AggregateTypePost     = "Post"
)

// Event type constants
const (
	EventTypeCampaignCreated       = "CampaignCreated"
	EventTypeCampaignStatusChanged = "CampaignStatusChanged"
	EventTypePostCreated           = "PostCreated"
	EventTypePostStatusChanged     = "PostStatusChanged"
)

// CampaignCreatedEvent is published when a new campaign is created
type CampaignCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	ClientID string `json:"client_id"`
}

// NewCampaignCreatedEvent creates a new CampaignCreatedEvent
func NewCampaignCreatedEvent(campaign *Campaign) *CampaignCreatedEvent {
	return &CampaignCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCampaignCreated, AggregateTypeCampaign, campaign.ID, campaign.AgencyID),
		Name:            campaign.Name,
		ClientID:        campaign.ClientID.String(),
	}
}

// CampaignStatusChangedEvent is published when a campaign's status changes
type CampaignStatusChangedEvent struct {
	shared.BaseDomainEvent
	Name      string `json:"name"`
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewCampaignStatusChangedEvent creates a new CampaignStatusChangedEvent
func NewCampaignStatusChangedEvent(campaign *Campaign, oldStatus, newStatus Status) *CampaignStatusChangedEvent {
	return &CampaignStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCampaignStatusChanged, AggregateTypeCampaign, campaign.ID, campaign.AgencyID),
		Name:            campaign.Name,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// PostCreatedEvent is published when a new post is created
type PostCreatedEvent struct {
	shared.BaseDomainEvent
	Title      string `json:"title"`
	CampaignID string `json:"campaign_id"`
}

// NewPostCreatedEvent creates a new PostCreatedEvent
func NewPostCreatedEvent(post *Post) *PostCreatedEvent {
	return &PostCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostCreated, AggregateTypePost, post.ID, post.AgencyID),
		Title:           post.Title,
		CampaignID:      post.CampaignID.String(),
	}
}

// PostStatusChangedEvent is published when a post's status changes
type PostStatusChangedEvent struct {
	shared.BaseDomainEvent
	Title     string     `json:"title"`
	OldStatus PostStatus `json:"old_status"`
	NewStatus PostStatus `json:"new_status"`
}

// NewPostStatusChangedEvent creates a new PostStatusChangedEvent
func NewPostStatusChangedEvent(post *Post, oldStatus, newStatus PostStatus) *PostStatusChangedEvent {
	return &PostStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostStatusChanged, AggregateTypePost, post.ID, post.AgencyID),
		Title:           post.Title,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
