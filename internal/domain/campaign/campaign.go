package campaign

import (
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a campaign
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Campaign represents a marketing campaign for a client.
// It is the aggregate root for campaign-related operations.
type Campaign struct {
	shared.AgencyAggregateRoot
	ClientID  uuid.UUID
	Name      string
	Objective string
	Budget    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
	Status    Status
}

// NewCampaign creates a new campaign in draft status
func NewCampaign(agencyID, clientID, createdBy uuid.UUID, name string, budget decimal.Decimal, startDate, endDate time.Time) (*Campaign, error) {
	if err := validateCampaignName(name); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if budget.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}
	if err := validateDates(startDate, endDate); err != nil {
		return nil, err
	}

	campaign := &Campaign{
		AgencyAggregateRoot: shared.NewAgencyAggregateRootWithCreator(agencyID, createdBy),
		ClientID:            clientID,
		Name:                strings.TrimSpace(name),
		Budget:              budget,
		StartDate:           startDate,
		EndDate:             endDate,
		Status:              StatusDraft,
	}

	campaign.AddDomainEvent(NewCampaignCreatedEvent(campaign))

	return campaign, nil
}

// Update updates the campaign's editable fields. Allowed in draft and paused status.
func (c *Campaign) Update(name, objective string, budget decimal.Decimal, startDate, endDate time.Time) error {
	if c.Status != StatusDraft && c.Status != StatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Campaign can only be edited while draft or paused")
	}
	if err := validateCampaignName(name); err != nil {
		return err
	}
	if budget.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}
	if err := validateDates(startDate, endDate); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Objective = objective
	c.Budget = budget
	c.StartDate = startDate
	c.EndDate = endDate
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate transitions the campaign to active status
func (c *Campaign) Activate() error {
	if c.Status != StatusDraft && c.Status != StatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Only draft or paused campaigns can be activated")
	}

	oldStatus := c.Status
	c.Status = StatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, oldStatus, StatusActive))

	return nil
}

// Pause pauses an active campaign
func (c *Campaign) Pause() error {
	if c.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active campaigns can be paused")
	}

	c.Status = StatusPaused
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, StatusActive, StatusPaused))

	return nil
}

// Complete marks an active or paused campaign as completed
func (c *Campaign) Complete() error {
	if c.Status != StatusActive && c.Status != StatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Only active or paused campaigns can be completed")
	}

	oldStatus := c.Status
	c.Status = StatusCompleted
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, oldStatus, StatusCompleted))

	return nil
}

// Archive archives a campaign that is not currently active
func (c *Campaign) Archive() error {
	if c.Status == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Pause or complete the campaign before archiving")
	}
	if c.Status == StatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Campaign is already archived")
	}

	oldStatus := c.Status
	c.Status = StatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, oldStatus, StatusArchived))

	return nil
}

// IsActive returns true if the campaign is active
func (c *Campaign) IsActive() bool {
	return c.Status == StatusActive
}

// IsArchived returns true if the campaign is archived
func (c *Campaign) IsArchived() bool {
	return c.Status == StatusArchived
}

// ContainsTime returns true if t falls within the campaign window
func (c *Campaign) ContainsTime(t time.Time) bool {
	return !t.Before(c.StartDate) && !t.After(c.EndDate)
}

func validateCampaignName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot exceed 200 characters")
	}
	return nil
}

func validateDates(startDate, endDate time.Time) error {
	if startDate.IsZero() || endDate.IsZero() {
		return shared.NewDomainError("INVALID_DATES", "Start and end dates are required")
	}
	if endDate.Before(startDate) {
		return shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}
	return nil
}
