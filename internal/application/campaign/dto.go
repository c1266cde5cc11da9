package campaign

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/social"
)

// CampaignDTO is the campaign representation returned to API consumers
type CampaignDTO struct {
	ID        uuid.UUID       `json:"id"`
	AgencyID  uuid.UUID       `json:"agency_id"`
	ClientID  uuid.UUID       `json:"client_id"`
	Name      string          `json:"name"`
	Objective string          `json:"objective,omitempty"`
	Budget    decimal.Decimal `json:"budget"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToCampaignDTO converts a domain campaign to its DTO
func ToCampaignDTO(c *campaign.Campaign) *CampaignDTO {
	return &CampaignDTO{
		ID:        c.ID,
		AgencyID:  c.AgencyID,
		ClientID:  c.ClientID,
		Name:      c.Name,
		Objective: c.Objective,
		Budget:    c.Budget,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// PostDTO is the post representation returned to API consumers
type PostDTO struct {
	ID            uuid.UUID  `json:"id"`
	AgencyID      uuid.UUID  `json:"agency_id"`
	CampaignID    uuid.UUID  `json:"campaign_id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Hashtags      []string   `json:"hashtags"`
	MediaKeys     []string   `json:"media_keys"`
	Platforms     []string   `json:"platforms"`
	Status        string     `json:"status"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToPostDTO converts a domain post to its DTO
func ToPostDTO(p *campaign.Post) *PostDTO {
	platforms := make([]string, len(p.Platforms))
	for i, pl := range p.Platforms {
		platforms[i] = string(pl)
	}

	return &PostDTO{
		ID:            p.ID,
		AgencyID:      p.AgencyID,
		CampaignID:    p.CampaignID,
		Title:         p.Title,
		Body:          p.Body,
		Hashtags:      p.Hashtags,
		MediaKeys:     p.MediaKeys,
		Platforms:     platforms,
		Status:        string(p.Status),
		ScheduledAt:   p.ScheduledAt,
		PublishedAt:   p.PublishedAt,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPlatforms(names []string) []social.Platform {
	platforms := make([]social.Platform, len(names))
	for i, name := range names {
		platforms[i] = social.Platform(name)
	}
	return platforms
}
