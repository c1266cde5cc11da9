package social

import (
	"context"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountRepository defines the interface for social account persistence
type AccountRepository interface {
	// FindByID finds an account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByIDForAgency finds an account scoped to an agency
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*Account, error)

	// FindByClient finds accounts of a client
	FindByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]Account, error)

	// FindByClientAndPlatform finds a client's account for a platform
	FindByClientAndPlatform(ctx context.Context, agencyID, clientID uuid.UUID, platform Platform) (*Account, error)

	// FindAllForAgency finds accounts of an agency matching the filter
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Account, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// SaveWithLock updates an account with an optimistic version check
	SaveWithLock(ctx context.Context, account *Account) error

	// Delete deletes an account
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAgency counts accounts of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)
}

// PublicationRepository defines the interface for publication persistence
type PublicationRepository interface {
	// FindByID finds a publication by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Publication, error)

	// FindByPost finds all publications of a post
	FindByPost(ctx context.Context, agencyID, postID uuid.UUID) ([]Publication, error)

	// FindAllForAgency finds publications of an agency matching the filter
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Publication, error)

	// Save creates or updates a publication
	Save(ctx context.Context, publication *Publication) error

	// CountForAgency counts publications of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)
}
