package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/agencyhub/backend/internal/domain/client"
)

// BrandProfileDTO mirrors the brand guidance block
type BrandProfileDTO struct {
	Voice    string `json:"voice"`
	Colors   string `json:"colors"`
	Keywords string `json:"keywords"`
}

// ClientDTO is the client representation returned to API consumers
type ClientDTO struct {
	ID        uuid.UUID       `json:"id"`
	AgencyID  uuid.UUID       `json:"agency_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Industry  string          `json:"industry,omitempty"`
	Website   string          `json:"website,omitempty"`
	Brand     BrandProfileDTO `json:"brand"`
	Notes     string          `json:"notes,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToClientDTO converts a domain client to its DTO
func ToClientDTO(c *client.Client) *ClientDTO {
	return &ClientDTO{
		ID:       c.ID,
		AgencyID: c.AgencyID,
		Name:     c.Name,
		Slug:     c.Slug,
		Industry: c.Industry,
		Website:  c.Website,
		Brand: BrandProfileDTO{
			Voice:    c.Brand.Voice,
			Colors:   c.Brand.Colors,
			Keywords: c.Brand.Keywords,
		},
		Notes:     c.Notes,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
