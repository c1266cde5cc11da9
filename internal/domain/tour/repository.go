package tour

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for tour progress persistence
type Repository interface {
	// FindByUser lists all tour progress of a user
	FindByUser(ctx context.Context, agencyID, userID uuid.UUID) ([]Progress, error)

	// FindByUserAndKey finds a user's progress for one tour
	FindByUserAndKey(ctx context.Context, agencyID, userID uuid.UUID, tourKey string) (*Progress, error)

	// Save creates or updates a progress record
	Save(ctx context.Context, progress *Progress) error
}
