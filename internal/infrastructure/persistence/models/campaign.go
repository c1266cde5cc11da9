package models

import (
	"encoding/json"
	"time"

	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignModel is the persistence model for the Campaign domain entity.
type CampaignModel struct {
	AgencyAggregateModel
	ClientID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Objective string          `gorm:"type:text"`
	Budget    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StartDate time.Time       `gorm:"not null"`
	EndDate   time.Time       `gorm:"not null"`
	Status    campaign.Status `gorm:"type:varchar(20);not null;default:'draft';index"`
}

// TableName returns the table name for GORM
func (CampaignModel) TableName() string {
	return "campaigns"
}

// ToDomain converts the persistence model to a domain Campaign entity.
func (m *CampaignModel) ToDomain() *campaign.Campaign {
	return &campaign.Campaign{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		ClientID:            m.ClientID,
		Name:                m.Name,
		Objective:           m.Objective,
		Budget:              m.Budget,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Campaign entity.
func (m *CampaignModel) FromDomain(c *campaign.Campaign) {
	m.FromDomainAgencyAggregateRoot(c.AgencyAggregateRoot)
	m.ClientID = c.ClientID
	m.Name = c.Name
	m.Objective = c.Objective
	m.Budget = c.Budget
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
	m.Status = c.Status
}

// CampaignModelFromDomain creates a new persistence model from a domain Campaign entity.
func CampaignModelFromDomain(c *campaign.Campaign) *CampaignModel {
	m := &CampaignModel{}
	m.FromDomain(c)
	return m
}

// PostModel is the persistence model for the Post domain entity.
// Hashtags, media keys and platforms are stored as JSON arrays.
type PostModel struct {
	AgencyAggregateModel
	CampaignID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Title         string              `gorm:"type:varchar(200);not null"`
	Body          string              `gorm:"type:text;not null"`
	Hashtags      string              `gorm:"type:jsonb;not null;default:'[]'"`
	MediaKeys     string              `gorm:"type:jsonb;not null;default:'[]'"`
	Platforms     string              `gorm:"type:jsonb;not null;default:'[]'"`
	Status        campaign.PostStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ScheduledAt   *time.Time          `gorm:"index"`
	PublishedAt   *time.Time
	FailureReason string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PostModel) TableName() string {
	return "posts"
}

// ToDomain converts the persistence model to a domain Post entity.
func (m *PostModel) ToDomain() (*campaign.Post, error) {
	var hashtags, mediaKeys []string
	var platforms []social.Platform
	if err := unmarshalList(m.Hashtags, &hashtags); err != nil {
		return nil, err
	}
	if err := unmarshalList(m.MediaKeys, &mediaKeys); err != nil {
		return nil, err
	}
	if err := unmarshalList(m.Platforms, &platforms); err != nil {
		return nil, err
	}

	return &campaign.Post{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		CampaignID:          m.CampaignID,
		Title:               m.Title,
		Body:                m.Body,
		Hashtags:            hashtags,
		MediaKeys:           mediaKeys,
		Platforms:           platforms,
		Status:              m.Status,
		ScheduledAt:         m.ScheduledAt,
		PublishedAt:         m.PublishedAt,
		FailureReason:       m.FailureReason,
	}, nil
}

// FromDomain populates the persistence model from a domain Post entity.
func (m *PostModel) FromDomain(p *campaign.Post) error {
	hashtags, err := json.Marshal(p.Hashtags)
	if err != nil {
		return err
	}
	mediaKeys, err := json.Marshal(p.MediaKeys)
	if err != nil {
		return err
	}
	platforms, err := json.Marshal(p.Platforms)
	if err != nil {
		return err
	}

	m.FromDomainAgencyAggregateRoot(p.AgencyAggregateRoot)
	m.CampaignID = p.CampaignID
	m.Title = p.Title
	m.Body = p.Body
	m.Hashtags = string(hashtags)
	m.MediaKeys = string(mediaKeys)
	m.Platforms = string(platforms)
	m.Status = p.Status
	m.ScheduledAt = p.ScheduledAt
	m.PublishedAt = p.PublishedAt
	m.FailureReason = p.FailureReason
	return nil
}

// PostModelFromDomain creates a new persistence model from a domain Post entity.
func PostModelFromDomain(p *campaign.Post) (*PostModel, error) {
	m := &PostModel{}
	if err := m.FromDomain(p); err != nil {
		return nil, err
	}
	return m, nil
}

// unmarshalList decodes a JSON array column, treating empty as an empty list
func unmarshalList(raw string, out any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}
