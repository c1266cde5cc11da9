package identity

import (
	"context"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AgencyRepository defines the interface for agency persistence
type AgencyRepository interface {
	// FindByID finds an agency by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Agency, error)

	// FindBySlug finds an agency by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Agency, error)

	// FindAll finds all agencies matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Agency, error)

	// Save creates or updates an agency
	Save(ctx context.Context, agency *Agency) error

	// SaveWithLock updates an agency with an optimistic version check
	SaveWithLock(ctx context.Context, agency *Agency) error

	// Count counts agencies matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if an agency with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForAgency finds a user scoped to an agency
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email within an agency
	FindByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*User, error)

	// FindByEmailGlobal finds a user by email across all agencies (login)
	FindByEmailGlobal(ctx context.Context, email string) (*User, error)

	// FindAllForAgency finds users of an agency matching the filter
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// SaveWithLock updates a user with an optimistic version check
	SaveWithLock(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAgency counts users of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)

	// CountOwners counts active users with the OWNER role in an agency
	CountOwners(ctx context.Context, agencyID uuid.UUID) (int64, error)

	// ExistsByEmail checks if a user with the given email exists in an agency
	ExistsByEmail(ctx context.Context, agencyID uuid.UUID, email string) (bool, error)
}

// InvitationRepository defines the interface for invitation persistence
type InvitationRepository interface {
	// FindByID finds an invitation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)

	// FindByIDForAgency finds an invitation scoped to an agency
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*Invitation, error)

	// FindByTokenHash finds an invitation by its hashed token
	FindByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error)

	// FindPendingByEmail finds a pending invitation for an email within an agency
	FindPendingByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*Invitation, error)

	// FindAllForAgency finds invitations of an agency matching the filter
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Invitation, error)

	// Save creates or updates an invitation
	Save(ctx context.Context, invitation *Invitation) error

	// SaveWithLock updates an invitation with an optimistic version check
	SaveWithLock(ctx context.Context, invitation *Invitation) error

	// CountForAgency counts invitations of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)
}

// APIKeyRepository defines the interface for API key persistence
type APIKeyRepository interface {
	// FindByID finds an API key by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*APIKey, error)

	// FindByIDForAgency finds an API key scoped to an agency
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*APIKey, error)

	// FindByKeyHash finds an API key by its hashed secret
	FindByKeyHash(ctx context.Context, keyHash string) (*APIKey, error)

	// FindAllForAgency finds API keys of an agency
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]APIKey, error)

	// Save creates or updates an API key
	Save(ctx context.Context, key *APIKey) error

	// SaveWithLock updates an API key with an optimistic version check
	SaveWithLock(ctx context.Context, key *APIKey) error

	// CountForAgency counts API keys of an agency
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)
}
