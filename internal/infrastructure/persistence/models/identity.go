package models

import (
	"encoding/json"
	"time"

	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// AgencyModel is the persistence model for the Agency domain entity.
type AgencyModel struct {
	AggregateModel
	Name        string                `gorm:"type:varchar(200);not null"`
	Slug        string                `gorm:"type:varchar(100);not null;uniqueIndex"`
	Website     string                `gorm:"type:varchar(500)"`
	Timezone    string                `gorm:"type:varchar(50);not null;default:'UTC'"`
	LogoURL     string                `gorm:"type:varchar(500)"`
	Status      identity.AgencyStatus `gorm:"type:varchar(20);not null;default:'trial'"`
	TrialEndsAt *time.Time
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AgencyModel) TableName() string {
	return "agencies"
}

// ToDomain converts the persistence model to a domain Agency entity.
func (m *AgencyModel) ToDomain() *identity.Agency {
	return &identity.Agency{
		BaseAggregateRoot: m.baseAggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Website:           m.Website,
		Timezone:          m.Timezone,
		LogoURL:           m.LogoURL,
		Status:            m.Status,
		TrialEndsAt:       m.TrialEndsAt,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Agency entity.
func (m *AgencyModel) FromDomain(a *identity.Agency) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.Slug = a.Slug
	m.Website = a.Website
	m.Timezone = a.Timezone
	m.LogoURL = a.LogoURL
	m.Status = a.Status
	m.TrialEndsAt = a.TrialEndsAt
	m.Notes = a.Notes
}

// AgencyModelFromDomain creates a new persistence model from a domain Agency entity.
func AgencyModelFromDomain(a *identity.Agency) *AgencyModel {
	m := &AgencyModel{}
	m.FromDomain(a)
	return m
}

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AgencyAggregateModel
	Email             string              `gorm:"type:varchar(200);not null;index"`
	Name              string              `gorm:"type:varchar(200);not null"`
	PasswordHash      string              `gorm:"type:varchar(255);not null"`
	Role              identity.Role       `gorm:"type:varchar(20);not null"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	AvatarURL         string              `gorm:"type:varchar(500)"`
	LastLoginAt       *time.Time
	LastLoginIP       string `gorm:"type:varchar(45)"`
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		Email:               m.Email,
		Name:                m.Name,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Status:              m.Status,
		AvatarURL:           m.AvatarURL,
		LastLoginAt:         m.LastLoginAt,
		LastLoginIP:         m.LastLoginIP,
		PasswordChangedAt:   m.PasswordChangedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAgencyAggregateRoot(u.AgencyAggregateRoot)
	m.Email = u.Email
	m.Name = u.Name
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.AvatarURL = u.AvatarURL
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// InvitationModel is the persistence model for the Invitation domain entity.
type InvitationModel struct {
	AgencyAggregateModel
	Email      string                    `gorm:"type:varchar(200);not null;index"`
	Role       identity.Role             `gorm:"type:varchar(20);not null"`
	TokenHash  string                    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status     identity.InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ExpiresAt  time.Time                 `gorm:"not null"`
	InvitedBy  uuid.UUID                 `gorm:"type:uuid;not null"`
	AcceptedAt *time.Time
}

// TableName returns the table name for GORM
func (InvitationModel) TableName() string {
	return "invitations"
}

// ToDomain converts the persistence model to a domain Invitation entity.
func (m *InvitationModel) ToDomain() *identity.Invitation {
	return &identity.Invitation{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		Email:               m.Email,
		Role:                m.Role,
		TokenHash:           m.TokenHash,
		Status:              m.Status,
		ExpiresAt:           m.ExpiresAt,
		InvitedBy:           m.InvitedBy,
		AcceptedAt:          m.AcceptedAt,
	}
}

// FromDomain populates the persistence model from a domain Invitation entity.
func (m *InvitationModel) FromDomain(i *identity.Invitation) {
	m.FromDomainAgencyAggregateRoot(i.AgencyAggregateRoot)
	m.Email = i.Email
	m.Role = i.Role
	m.TokenHash = i.TokenHash
	m.Status = i.Status
	m.ExpiresAt = i.ExpiresAt
	m.InvitedBy = i.InvitedBy
	m.AcceptedAt = i.AcceptedAt
}

// InvitationModelFromDomain creates a new persistence model from a domain Invitation entity.
func InvitationModelFromDomain(i *identity.Invitation) *InvitationModel {
	m := &InvitationModel{}
	m.FromDomain(i)
	return m
}

// APIKeyModel is the persistence model for the APIKey domain entity.
// Scopes are stored as a JSON array.
type APIKeyModel struct {
	AgencyAggregateModel
	Name       string `gorm:"type:varchar(100);not null"`
	Prefix     string `gorm:"type:varchar(8);not null;index"`
	KeyHash    string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Scopes     string `gorm:"type:jsonb;not null;default:'[]'"`
	LastUsedAt *time.Time
	RevokedAt  *time.Time
}

// TableName returns the table name for GORM
func (APIKeyModel) TableName() string {
	return "api_keys"
}

// ToDomain converts the persistence model to a domain APIKey entity.
func (m *APIKeyModel) ToDomain() (*identity.APIKey, error) {
	scopes := make([]string, 0)
	if m.Scopes != "" {
		if err := json.Unmarshal([]byte(m.Scopes), &scopes); err != nil {
			return nil, err
		}
	}

	return &identity.APIKey{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		Name:                m.Name,
		Prefix:              m.Prefix,
		KeyHash:             m.KeyHash,
		Scopes:              scopes,
		LastUsedAt:          m.LastUsedAt,
		RevokedAt:           m.RevokedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain APIKey entity.
func (m *APIKeyModel) FromDomain(k *identity.APIKey) error {
	scopes, err := json.Marshal(k.Scopes)
	if err != nil {
		return err
	}

	m.FromDomainAgencyAggregateRoot(k.AgencyAggregateRoot)
	m.Name = k.Name
	m.Prefix = k.Prefix
	m.KeyHash = k.KeyHash
	m.Scopes = string(scopes)
	m.LastUsedAt = k.LastUsedAt
	m.RevokedAt = k.RevokedAt
	return nil
}

// APIKeyModelFromDomain creates a new persistence model from a domain APIKey entity.
func APIKeyModelFromDomain(k *identity.APIKey) (*APIKeyModel, error) {
	m := &APIKeyModel{}
	if err := m.FromDomain(k); err != nil {
		return nil, err
	}
	return m, nil
}
