package audit

import (
	"context"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for audit log persistence.
// Logs are append-only; there is no update or delete.
type Repository interface {
	// Save appends an audit log entry
	Save(ctx context.Context, log *Log) error

	// FindAllForAgency lists entries of an agency, newest first.
	// Filter keys: actor_id, action, entity_type, entity_id, from, to.
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Log, error)

	// CountForAgency counts entries of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)
}
