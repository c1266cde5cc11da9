package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/agencyhub/backend/internal/domain/audit"
)

// LogDTO is the audit log representation returned to clients
type LogDTO struct {
	ID         uuid.UUID  `json:"id"`
	AgencyID   uuid.UUID  `json:"agency_id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	Metadata   string     `json:"metadata,omitempty"`
	RequestIP  string     `json:"request_ip,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToLogDTO converts a domain audit log to its DTO
func ToLogDTO(l *audit.Log) *LogDTO {
	return &LogDTO{
		ID:         l.ID,
		AgencyID:   l.AgencyID,
		ActorID:    l.ActorID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Metadata:   l.Metadata,
		RequestIP:  l.RequestIP,
		CreatedAt:  l.CreatedAt,
	}
}
