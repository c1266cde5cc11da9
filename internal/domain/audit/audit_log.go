package audit

import (
	"strings"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Well-known audit actions. Services record one entry per mutating
// operation using "<entity>.<verb>" action names.
const (
	ActionClientCreated   = "client.created"
	ActionClientUpdated   = "client.updated"
	ActionClientArchived  = "client.archived"
	ActionClientDeleted   = "client.deleted"
	ActionCampaignCreated = "campaign.created"
	ActionCampaignUpdated = "campaign.updated"
	ActionPostCreated     = "post.created"
	ActionPostScheduled   = "post.scheduled"
	ActionPostPublished   = "post.published"
	ActionAgencyUpdated   = "agency.updated"
	ActionUserCreated     = "user.created"
	ActionUserRoleChanged = "user.role_changed"
	ActionUserStatus      = "user.status_changed"
	ActionUserDeleted     = "user.deleted"
	ActionPasswordChanged = "user.password_changed"
	ActionInviteCreated   = "invitation.created"
	ActionInviteAccepted  = "invitation.accepted"
	ActionInviteRevoked   = "invitation.revoked"
	ActionJobCreated      = "generation_job.created"
	ActionJobCancelled    = "generation_job.cancelled"
	ActionPlanChanged     = "subscription.plan_changed"
	ActionTokensGranted   = "tokens.granted"
	ActionAPIKeyCreated   = "apikey.created"
	ActionAPIKeyRevoked   = "apikey.revoked"
)

// Log is an append-only audit record of a mutating operation.
// ActorID is nil for system-initiated actions (webhooks, workers).
type Log struct {
	shared.BaseEntity
	AgencyID   uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Metadata   string // JSON payload with action-specific details
	RequestIP  string
}

// NewLog creates an audit log entry
func NewLog(agencyID uuid.UUID, actorID *uuid.UUID, action, entityType string, entityID uuid.UUID, metadata, requestIP string) (*Log, error) {
	if strings.TrimSpace(action) == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action cannot be empty")
	}
	if strings.TrimSpace(entityType) == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type cannot be empty")
	}

	return &Log{
		BaseEntity: shared.NewBaseEntity(),
		AgencyID:   agencyID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
		RequestIP:  requestIP,
	}, nil
}
