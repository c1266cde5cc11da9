package generation

import (
	"context"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobRepository defines the interface for generation job persistence.
// It doubles as the durable work queue: ClaimNextQueued and RequeueStale
// implement the claim and crash-recovery semantics workers rely on.
type JobRepository interface {
	// FindByID finds a job by its ID, with steps loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// FindByIDForAgency finds a job scoped to an agency, with steps loaded
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*Job, error)

	// FindAllForAgency finds jobs of an agency matching the filter
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Job, error)

	// ClaimNextQueued atomically claims the oldest claimable queued job
	// for a worker. Returns nil when no job is available.
	ClaimNextQueued(ctx context.Context, workerID string, now time.Time) (*Job, error)

	// RequeueStale requeues running jobs whose last update is older than
	// the threshold (crash recovery). Returns the number requeued.
	RequeueStale(ctx context.Context, olderThan time.Time) (int64, error)

	// Save creates or updates a job together with its steps
	Save(ctx context.Context, job *Job) error

	// SaveWithLock updates a job and its steps only when the stored job
	// version matches the version the caller loaded. Returns
	// ErrConcurrencyConflict on a stale write.
	SaveWithLock(ctx context.Context, job *Job) error

	// SaveStep persists a single step transition
	SaveStep(ctx context.Context, step *Step) error

	// IsCancelRequested reads the current cancellation flag of a job
	IsCancelRequested(ctx context.Context, id uuid.UUID) (bool, error)

	// CountForAgency counts jobs of an agency matching the filter
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts jobs by status across all agencies
	CountByStatus(ctx context.Context, status JobStatus) (int64, error)
}
