package client

import (
	"context"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for client persistence
type Repository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByIDForAgency finds a client scoped to an agency
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*Client, error)

	// FindBySlug finds a client by slug within an agency
	FindBySlug(ctx context.Context, agencyID uuid.UUID, slug string) (*Client, error)

	// FindAllForAgency finds clients of an agency matching the filter
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Client, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// SaveWithLock updates a client only when the stored version matches
	// the version the caller loaded. Returns ErrConcurrencyConflict on a
	// stale write.
	SaveWithLock(ctx context.Context, client *Client) error

	// Delete deletes a client
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAgency counts clients of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if a client with the given slug exists in an agency
	ExistsBySlug(ctx context.Context, agencyID uuid.UUID, slug string) (bool, error)
}
