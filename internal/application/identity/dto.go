package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/infrastructure/auth"
)

// AgencyDTO is the agency representation returned to clients
type AgencyDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Website     string     `json:"website,omitempty"`
	Timezone    string     `json:"timezone"`
	LogoURL     string     `json:"logo_url,omitempty"`
	Status      string     `json:"status"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserDTO is the user representation returned to clients.
// The password hash never leaves the application layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	AgencyID    uuid.UUID  `json:"agency_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// InvitationDTO is the invitation representation returned to clients.
// The raw token only appears in CreatedInvitationDTO.
type InvitationDTO struct {
	ID         uuid.UUID  `json:"id"`
	AgencyID   uuid.UUID  `json:"agency_id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	ExpiresAt  time.Time  `json:"expires_at"`
	InvitedBy  uuid.UUID  `json:"invited_by"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreatedInvitationDTO carries the raw invite token, returned exactly once
type CreatedInvitationDTO struct {
	InvitationDTO
	Token string `json:"token"`
}

// APIKeyDTO is the API key representation returned to clients.
// Only the prefix of the secret is ever shown after creation.
type APIKeyDTO struct {
	ID         uuid.UUID  `json:"id"`
	AgencyID   uuid.UUID  `json:"agency_id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	Scopes     []string   `json:"scopes"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// HasScope checks whether the key grants a scope
func (d *APIKeyDTO) HasScope(scope string) bool {
	for _, s := range d.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// CreatedAPIKeyDTO carries the raw secret, returned exactly once
type CreatedAPIKeyDTO struct {
	APIKeyDTO
	Secret string `json:"secret"`
}

// LoginResultDTO is returned by login and invitation acceptance
type LoginResultDTO struct {
	User   *UserDTO        `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// RegisterResultDTO is returned by agency registration
type RegisterResultDTO struct {
	Agency *AgencyDTO      `json:"agency"`
	Owner  *UserDTO        `json:"owner"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// AgencyStatsDTO summarizes an agency's footprint
type AgencyStatsDTO struct {
	Users     int64 `json:"users"`
	Clients   int64 `json:"clients"`
	Campaigns int64 `json:"campaigns"`
}

// ToAgencyDTO converts a domain agency to its DTO
func ToAgencyDTO(a *identity.Agency) *AgencyDTO {
	return &AgencyDTO{
		ID:          a.ID,
		Name:        a.Name,
		Slug:        a.Slug,
		Website:     a.Website,
		Timezone:    a.Timezone,
		LogoURL:     a.LogoURL,
		Status:      string(a.Status),
		TrialEndsAt: a.TrialEndsAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToUserDTO converts a domain user to its DTO
func ToUserDTO(u *identity.User) *UserDTO {
	return &UserDTO{
		ID:          u.ID,
		AgencyID:    u.AgencyID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Status:      string(u.Status),
		AvatarURL:   u.AvatarURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToInvitationDTO converts a domain invitation to its DTO
func ToInvitationDTO(i *identity.Invitation) *InvitationDTO {
	return &InvitationDTO{
		ID:         i.ID,
		AgencyID:   i.AgencyID,
		Email:      i.Email,
		Role:       string(i.Role),
		Status:     string(i.Status),
		ExpiresAt:  i.ExpiresAt,
		InvitedBy:  i.InvitedBy,
		AcceptedAt: i.AcceptedAt,
		CreatedAt:  i.CreatedAt,
	}
}

// ToAPIKeyDTO converts a domain API key to its DTO
func ToAPIKeyDTO(k *identity.APIKey) *APIKeyDTO {
	scopes := make([]string, len(k.Scopes))
	copy(scopes, k.Scopes)
	return &APIKeyDTO{
		ID:         k.ID,
		AgencyID:   k.AgencyID,
		Name:       k.Name,
		Prefix:     k.Prefix,
		Scopes:     scopes,
		LastUsedAt: k.LastUsedAt,
		RevokedAt:  k.RevokedAt,
		CreatedAt:  k.CreatedAt,
	}
}
