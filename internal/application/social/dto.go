// Package social manages connected social accounts and post publishing.
package social

import (
	"time"

	"github.com/google/uuid"

	"github.com/agencyhub/backend/internal/domain/social"
)

// AccountDTO is the account representation returned to API consumers.
// Tokens never leave the service layer.
type AccountDTO struct {
	ID             uuid.UUID  `json:"id"`
	AgencyID       uuid.UUID  `json:"agency_id"`
	ClientID       uuid.UUID  `json:"client_id"`
	Platform       string     `json:"platform"`
	Handle         string     `json:"handle"`
	Status         string     `json:"status"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToAccountDTO converts a domain account to its DTO
func ToAccountDTO(a *social.Account) *AccountDTO {
	return &AccountDTO{
		ID:             a.ID,
		AgencyID:       a.AgencyID,
		ClientID:       a.ClientID,
		Platform:       string(a.Platform),
		Handle:         a.Handle,
		Status:         string(a.Status),
		TokenExpiresAt: a.TokenExpiresAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// PublicationDTO is one publish attempt of a post to an account
type PublicationDTO struct {
	ID           uuid.UUID  `json:"id"`
	PostID       uuid.UUID  `json:"post_id"`
	AccountID    uuid.UUID  `json:"account_id"`
	Platform     string     `json:"platform"`
	Status       string     `json:"status"`
	ExternalID   string     `json:"external_id,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	AttemptedAt  *time.Time `json:"attempted_at,omitempty"`
}

// ToPublicationDTO converts a domain publication to its DTO
func ToPublicationDTO(p *social.Publication) *PublicationDTO {
	return &PublicationDTO{
		ID:           p.ID,
		PostID:       p.PostID,
		AccountID:    p.AccountID,
		Platform:     string(p.Platform),
		Status:       string(p.Status),
		ExternalID:   p.ExternalID,
		ErrorMessage: p.ErrorMessage,
		AttemptedAt:  p.AttemptedAt,
	}
}
