package campaign

import (
	"context"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for campaign persistence
type Repository interface {
	// FindByID finds a campaign by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Campaign, error)

	// FindByIDForAgency finds a campaign scoped to an agency
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*Campaign, error)

	// FindAllForAgency finds campaigns of an agency matching the filter
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Campaign, error)

	// FindByClient finds campaigns of a client matching the filter
	FindByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]Campaign, error)

	// FindOverlapping finds campaigns whose window overlaps [from, to]
	FindOverlapping(ctx context.Context, agencyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]Campaign, error)

	// Save creates or updates a campaign
	Save(ctx context.Context, campaign *Campaign) error

	// SaveWithLock updates a campaign with an optimistic version check
	SaveWithLock(ctx context.Context, campaign *Campaign) error

	// Delete deletes a campaign
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAgency counts campaigns of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)

	// CountActiveByClient counts non-archived campaigns of a client
	CountActiveByClient(ctx context.Context, agencyID, clientID uuid.UUID) (int64, error)
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// FindByID finds a post by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindByIDForAgency finds a post scoped to an agency
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*Post, error)

	// FindAllForAgency finds posts of an agency matching the filter
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Post, error)

	// FindByCampaign finds posts of a campaign matching the filter
	FindByCampaign(ctx context.Context, agencyID, campaignID uuid.UUID, filter shared.Filter) ([]Post, error)

	// FindScheduledInRange finds scheduled posts in a calendar window
	FindScheduledInRange(ctx context.Context, agencyID uuid.UUID, from, to time.Time) ([]Post, error)

	// FindDueScheduled finds scheduled posts whose time has arrived
	FindDueScheduled(ctx context.Context, before time.Time, limit int) ([]Post, error)

	// Save creates or updates a post
	Save(ctx context.Context, post *Post) error

	// SaveWithLock updates a post with an optimistic version check
	SaveWithLock(ctx context.Context, post *Post) error

	// Delete deletes a post
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAgency counts posts of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)
}
