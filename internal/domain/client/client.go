package client

import (
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the status of a client
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// BrandProfile holds brand guidance used by content generation
type BrandProfile struct {
	Voice    string `json:"voice"`    // Tone of voice description
	Colors   string `json:"colors"`   // Comma-separated hex colors
	Keywords string `json:"keywords"` // Comma-separated brand keywords
}

// Client represents a brand managed by an agency.
// It is the aggregate root for client-related operations.
type Client struct {
	shared.AgencyAggregateRoot
	Name     string
	Slug     string
	Industry string
	Website  string
	Brand    BrandProfile
	Notes    string
	Status   Status
}

// NewClient creates a new active client
func NewClient(agencyID, createdBy uuid.UUID, name, slug string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := identity.ValidateSlug(slug); err != nil {
		return nil, err
	}

	client := &Client{
		AgencyAggregateRoot: shared.NewAgencyAggregateRootWithCreator(agencyID, createdBy),
		Name:                strings.TrimSpace(name),
		Slug:                strings.ToLower(slug),
		Status:              StatusActive,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update updates the client's basic information
func (c *Client) Update(name, industry, website string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	if industry != "" && len(industry) > 100 {
		return shared.NewDomainError("INVALID_INDUSTRY", "Industry cannot exceed 100 characters")
	}
	if website != "" && len(website) > 500 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website URL cannot exceed 500 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.Industry = industry
	c.Website = website
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetBrand sets the client's brand profile
func (c *Client) SetBrand(brand BrandProfile) error {
	if len(brand.Voice) > 2000 {
		return shared.NewDomainError("INVALID_BRAND_VOICE", "Brand voice cannot exceed 2000 characters")
	}

	c.Brand = brand
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the client's notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Archive archives the client
func (c *Client) Archive() error {
	if c.Status == StatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Client is already archived")
	}

	c.Status = StatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientArchivedEvent(c))

	return nil
}

// Restore restores an archived client to active status
func (c *Client) Restore() error {
	if c.Status != StatusArchived {
		return shared.NewDomainError("NOT_ARCHIVED", "Client is not archived")
	}

	c.Status = StatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

// IsArchived returns true if the client is archived
func (c *Client) IsArchived() bool {
	return c.Status == StatusArchived
}

func validateClientName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}
