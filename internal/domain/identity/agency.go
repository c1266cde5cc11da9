package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
)

// AgencyStatus represents the status of an agency
type AgencyStatus string

const (
	AgencyStatusTrial     AgencyStatus = "trial"     // Trial period
	AgencyStatusActive    AgencyStatus = "active"    // Paying, in good standing
	AgencyStatusSuspended AgencyStatus = "suspended" // Suspended due to payment/violation issues
	AgencyStatusCancelled AgencyStatus = "cancelled" // Cancelled by the owner
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Agency represents a marketing agency, the tenant root of the system.
// All other aggregates are scoped to an agency.
type Agency struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string
	Website     string
	Timezone    string
	LogoURL     string
	Status      AgencyStatus
	TrialEndsAt *time.Time
	Notes       string
}

// NewAgency creates a new agency in trial status
func NewAgency(name, slug string, trialDays int) (*Agency, error) {
	if err := validateAgencyName(name); err != nil {
		return nil, err
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL_DAYS", "Trial days must be positive")
	}

	trialEnds := time.Now().AddDate(0, 0, trialDays)
	agency := &Agency{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              strings.ToLower(slug),
		Timezone:          "UTC",
		Status:            AgencyStatusTrial,
		TrialEndsAt:       &trialEnds,
	}

	agency.AddDomainEvent(NewAgencyCreatedEvent(agency))

	return agency, nil
}

// UpdateProfile updates the agency's profile information
func (a *Agency) UpdateProfile(name, website, timezone string) error {
	if err := validateAgencyName(name); err != nil {
		return err
	}
	if website != "" && len(website) > 500 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website URL cannot exceed 500 characters")
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone")
	}

	a.Name = name
	a.Website = website
	a.Timezone = timezone
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAgencyUpdatedEvent(a))

	return nil
}

// SetLogoURL sets the agency's logo URL
func (a *Agency) SetLogoURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Logo URL cannot exceed 500 characters")
	}

	a.LogoURL = url
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetNotes sets the agency's notes
func (a *Agency) SetNotes(notes string) {
	a.Notes = notes
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Activate marks the agency as active (e.g., trial converted to a paid plan)
func (a *Agency) Activate() error {
	if a.Status == AgencyStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Agency is already active")
	}

	oldStatus := a.Status
	a.Status = AgencyStatusActive
	a.TrialEndsAt = nil
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAgencyStatusChangedEvent(a, oldStatus, AgencyStatusActive))

	return nil
}

// Suspend suspends the agency (e.g., due to payment issues)
func (a *Agency) Suspend() error {
	if a.Status == AgencyStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Agency is already suspended")
	}
	if a.Status == AgencyStatusCancelled {
		return shared.NewDomainError("AGENCY_CANCELLED", "Cannot suspend a cancelled agency")
	}

	oldStatus := a.Status
	a.Status = AgencyStatusSuspended
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAgencyStatusChangedEvent(a, oldStatus, AgencyStatusSuspended))

	return nil
}

// Reactivate restores a suspended agency to active status
func (a *Agency) Reactivate() error {
	if a.Status != AgencyStatusSuspended {
		return shared.NewDomainError("NOT_SUSPENDED", "Agency is not suspended")
	}

	a.Status = AgencyStatusActive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAgencyStatusChangedEvent(a, AgencyStatusSuspended, AgencyStatusActive))

	return nil
}

// Cancel cancels the agency
func (a *Agency) Cancel() error {
	if a.Status == AgencyStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Agency is already cancelled")
	}

	oldStatus := a.Status
	a.Status = AgencyStatusCancelled
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAgencyStatusChangedEvent(a, oldStatus, AgencyStatusCancelled))

	return nil
}

// IsActive returns true if the agency is active
func (a *Agency) IsActive() bool {
	return a.Status == AgencyStatusActive
}

// IsTrial returns true if the agency is in its trial period
func (a *Agency) IsTrial() bool {
	return a.Status == AgencyStatusTrial
}

// IsSuspended returns true if the agency is suspended
func (a *Agency) IsSuspended() bool {
	return a.Status == AgencyStatusSuspended
}

// IsTrialExpired returns true if the trial has expired
func (a *Agency) IsTrialExpired() bool {
	if a.Status != AgencyStatusTrial {
		return false
	}
	if a.TrialEndsAt == nil {
		return false
	}
	return time.Now().After(*a.TrialEndsAt)
}

// IsOperational returns true if the agency may use the platform
func (a *Agency) IsOperational() bool {
	return a.Status == AgencyStatusActive || (a.Status == AgencyStatusTrial && !a.IsTrialExpired())
}

// Validation functions

func validateAgencyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Agency name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Agency name cannot exceed 200 characters")
	}
	return nil
}

// ValidateSlug validates a URL-safe slug
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 100 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 100 characters")
	}
	if !slugRegex.MatchString(strings.ToLower(slug)) {
		return shared.NewDomainError("INVALID_SLUG", "Slug can only contain lowercase letters, numbers, and hyphens")
	}
	return nil
}
