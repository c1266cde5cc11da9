package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// AgencyAggregateRoot extends BaseAggregateRoot with agency (tenant) scoping
type AgencyAggregateRoot struct {
	BaseAggregateRoot
	AgencyID  uuid.UUID
	CreatedBy *uuid.UUID
}

// NewAgencyAggregateRoot creates a new agency-scoped aggregate root
func NewAgencyAggregateRoot(agencyID uuid.UUID) AgencyAggregateRoot {
	return AgencyAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		AgencyID:          agencyID,
	}
}

// NewAgencyAggregateRootWithCreator creates a new agency-scoped aggregate root with creator info
func NewAgencyAggregateRootWithCreator(agencyID, createdBy uuid.UUID) AgencyAggregateRoot {
	return AgencyAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		AgencyID:          agencyID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (a *AgencyAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	a.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (a *AgencyAggregateRoot) GetCreatedBy() *uuid.UUID {
	return a.CreatedBy
}
