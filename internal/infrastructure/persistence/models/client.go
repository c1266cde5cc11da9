package models

import (
	"github.com/agencyhub/backend/internal/domain/client"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	AgencyAggregateModel
	Name          string        `gorm:"type:varchar(200);not null"`
	Slug          string        `gorm:"type:varchar(100);not null"`
	Industry      string        `gorm:"type:varchar(100)"`
	Website       string        `gorm:"type:varchar(500)"`
	BrandVoice    string        `gorm:"column:brand_voice;type:text"`
	BrandColors   string        `gorm:"column:brand_colors;type:varchar(500)"`
	BrandKeywords string        `gorm:"column:brand_keywords;type:varchar(1000)"`
	Notes         string        `gorm:"type:text"`
	Status        client.Status `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *client.Client {
	return &client.Client{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		Name:                m.Name,
		Slug:                m.Slug,
		Industry:            m.Industry,
		Website:             m.Website,
		Brand: client.BrandProfile{
			Voice:    m.BrandVoice,
			Colors:   m.BrandColors,
			Keywords: m.BrandKeywords,
		},
		Notes:  m.Notes,
		Status: m.Status,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *client.Client) {
	m.FromDomainAgencyAggregateRoot(c.AgencyAggregateRoot)
	m.Name = c.Name
	m.Slug = c.Slug
	m.Industry = c.Industry
	m.Website = c.Website
	m.BrandVoice = c.Brand.Voice
	m.BrandColors = c.Brand.Colors
	m.BrandKeywords = c.Brand.Keywords
	m.Notes = c.Notes
	m.Status = c.Status
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *client.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
