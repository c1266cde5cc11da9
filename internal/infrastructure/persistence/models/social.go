package models

import (
	"time"

	"github.com/agencyhub/backend/internal/domain/social"
	"github.com/google/uuid"
)

// AccountModel is the persistence model for the social Account domain entity.
// Access and refresh tokens are stored encrypted; the repository owns the
// cipher and performs encryption on save and decryption on load.
type AccountModel struct {
	AgencyAggregateModel
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Platform        social.Platform `gorm:"type:varchar(20);not null"`
	Handle          string          `gorm:"type:varchar(100);not null"`
	AccessTokenEnc  string          `gorm:"column:access_token_enc;type:text"`
	RefreshTokenEnc string          `gorm:"column:refresh_token_enc;type:text"`
	TokenExpiresAt  *time.Time
	Status          social.AccountStatus `gorm:"type:varchar(20);not null;default:'connected'"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "social_accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
// Token fields carry ciphertext; the repository decrypts them.
func (m *AccountModel) ToDomain() *social.Account {
	return &social.Account{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		ClientID:            m.ClientID,
		Platform:            m.Platform,
		Handle:              m.Handle,
		AccessToken:         m.AccessTokenEnc,
		RefreshToken:        m.RefreshTokenEnc,
		TokenExpiresAt:      m.TokenExpiresAt,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
// Token fields must already be encrypted by the repository.
func (m *AccountModel) FromDomain(a *social.Account) {
	m.FromDomainAgencyAggregateRoot(a.AgencyAggregateRoot)
	m.ClientID = a.ClientID
	m.Platform = a.Platform
	m.Handle = a.Handle
	m.AccessTokenEnc = a.AccessToken
	m.RefreshTokenEnc = a.RefreshToken
	m.TokenExpiresAt = a.TokenExpiresAt
	m.Status = a.Status
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *social.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// PublicationModel is the persistence model for the Publication domain entity.
type PublicationModel struct {
	AgencyAggregateModel
	PostID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	AccountID    uuid.UUID                `gorm:"type:uuid;not null;index"`
	Platform     social.Platform          `gorm:"type:varchar(20);not null"`
	Status       social.PublicationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ExternalID   string                   `gorm:"type:varchar(200)"`
	ErrorMessage string                   `gorm:"type:text"`
	AttemptedAt  *time.Time
}

// TableName returns the table name for GORM
func (PublicationModel) TableName() string {
	return "publications"
}

// ToDomain converts the persistence model to a domain Publication entity.
func (m *PublicationModel) ToDomain() *social.Publication {
	return &social.Publication{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		PostID:              m.PostID,
		AccountID:           m.AccountID,
		Platform:            m.Platform,
		Status:              m.Status,
		ExternalID:          m.ExternalID,
		ErrorMessage:        m.ErrorMessage,
		AttemptedAt:         m.AttemptedAt,
	}
}

// FromDomain populates the persistence model from a domain Publication entity.
func (m *PublicationModel) FromDomain(p *social.Publication) {
	m.FromDomainAgencyAggregateRoot(p.AgencyAggregateRoot)
	m.PostID = p.PostID
	m.AccountID = p.AccountID
	m.Platform = p.Platform
	m.Status = p.Status
	m.ExternalID = p.ExternalID
	m.ErrorMessage = p.ErrorMessage
	m.AttemptedAt = p.AttemptedAt
}

// PublicationModelFromDomain creates a new persistence model from a domain Publication entity.
func PublicationModelFromDomain(p *social.Publication) *PublicationModel {
	m := &PublicationModel{}
	m.FromDomain(p)
	return m
}
