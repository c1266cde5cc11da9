package identity

import (
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAgency = "Agency"

// Event type constants
const (
	EventTypeAgencyCreated       = "AgencyCreated"
	EventTypeAgencyUpdated       = "AgencyUpdated"
	EventTypeAgencyStatusChanged = "AgencyStatusChanged"
)

// AgencyCreatedEvent is published when a new agency is created
type AgencyCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string       `json:"name"`
	Slug   string       `json:"slug"`
	Status AgencyStatus `json:"status"`
}

// NewAgencyCreatedEvent creates a new AgencyCreatedEvent
func NewAgencyCreatedEvent(agency *Agency) *AgencyCreatedEvent {
	return &AgencyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgencyCreated, AggregateTypeAgency, agency.ID, agency.ID),
		Name:            agency.Name,
		Slug:            agency.Slug,
		Status:          agency.Status,
	}
}

// AgencyUpdatedEvent is published when an agency's profile is updated
type AgencyUpdatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Website  string `json:"website,omitempty"`
	Timezone string `json:"timezone"`
}

// NewAgencyUpdatedEvent creates a new AgencyUpdatedEvent
func NewAgencyUpdatedEvent(agency *Agency) *AgencyUpdatedEvent {
	return &AgencyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgencyUpdated, AggregateTypeAgency, agency.ID, agency.ID),
		Name:            agency.Name,
		Website:         agency.Website,
		Timezone:        agency.Timezone,
	}
}

// AgencyStatusChangedEvent is published when an agency's status changes
type AgencyStatusChangedEvent struct {
	shared.BaseDomainEvent
	Slug      string       `json:"slug"`
	OldStatus AgencyStatus `json:"old_status"`
	NewStatus AgencyStatus `json:"new_status"`
}

// NewAgencyStatusChangedEvent creates a new AgencyStatusChangedEvent
func NewAgencyStatusChangedEvent(agency *Agency, oldStatus, newStatus AgencyStatus) *AgencyStatusChangedEvent {
	return &AgencyStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgencyStatusChanged, AggregateTypeAgency, agency.ID, agency.ID),
		Slug:            agency.Slug,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
