package identity

import (
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInvitation = "Invitation"

// Event type constants
const (
	EventTypeInvitationCreated  = "InvitationCreated"
	EventTypeInvitationAccepted = "InvitationAccepted"
)

// InvitationCreatedEvent is published when an invitation is created
type InvitationCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewInvitationCreatedEvent creates a new InvitationCreatedEvent
func NewInvitationCreatedEvent(invitation *Invitation) *InvitationCreatedEvent {
	return &InvitationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvitationCreated, AggregateTypeInvitation, invitation.ID, invitation.AgencyID),
		Email:           invitation.Email,
		Role:            invitation.Role,
	}
}

// InvitationAcceptedEvent is published when an invitation is accepted
type InvitationAcceptedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewInvitationAcceptedEvent creates a new InvitationAcceptedEvent
func NewInvitationAcceptedEvent(invitation *Invitation) *InvitationAcceptedEvent {
	return &InvitationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvitationAccepted, AggregateTypeInvitation, invitation.ID, invitation.AgencyID),
		Email:           invitation.Email,
		Role:            invitation.Role,
	}
}
