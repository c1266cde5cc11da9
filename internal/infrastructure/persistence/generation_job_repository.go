package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobRepository implements generation.JobRepository using GORM.
// The jobs table doubles as the work queue: claiming uses a row lock with
// SKIP LOCKED so concurrent workers never pick the same job, and stale
// running jobs are requeued by the janitor after a crash.
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// FindByID finds a job by its ID, with steps loaded
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*generation.Job, error) {
	var model models.JobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.loadWithSteps(ctx, &model)
}

// FindByIDForAgency finds a job scoped to an agency, with steps loaded
func (r *GormJobRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*generation.Job, error) {
	var model models.JobModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND id = ?", agencyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.loadWithSteps(ctx, &model)
}

// FindAllForAgency finds jobs of an agency matching the filter
func (r *GormJobRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]generation.Job, error) {
	var jobModels []models.JobModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.JobModel{}).Where("agency_id = ?", agencyID),
		filter,
	)

	if err := query.Find(&jobModels).Error; err != nil {
		return nil, err
	}

	jobs := make([]generation.Job, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	return jobs, nil
}

// ClaimNextQueued atomically claims the oldest claimable queued job for a
// worker. The row lock with SKIP LOCKED keeps concurrent workers from
// claiming the same job. Returns nil when no job is available.
func (r *GormJobRepository) ClaimNextQueued(ctx context.Context, workerID string, now time.Time) (*generation.Job, error) {
	var claimed *models.JobModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.JobModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND run_after <= ?", generation.JobStatusQueued, now).
			Order("created_at ASC").
			First(&model).Error; err != nil {
			return err
		}

		job := model.ToDomain()
		if err := job.StartRun(workerID); err != nil {
			return err
		}

		model.FromDomain(job)
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		claimed = &model
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.loadWithSteps(ctx, claimed)
}

// RequeueStale requeues running jobs whose last update is older than the
// threshold (crash recovery). Returns the number requeued.
func (r *GormJobRepository) RequeueStale(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("status = ? AND updated_at < ?", generation.JobStatusRunning, olderThan).
		Updates(map[string]any{
			"status":     generation.JobStatusQueued,
			"worker_id":  "",
			"run_after":  time.Now(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Save creates or updates a job together with its steps
func (r *GormJobRepository) Save(ctx context.Context, job *generation.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.JobModelFromDomain(job)
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		for i := range job.Steps {
			stepModel := models.StepModelFromDomain(&job.Steps[i])
			if err := tx.Save(stepModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock updates a job and its steps, guarding the job row with an
// optimistic version check so a worker's transition and a dashboard
// cancellation cannot silently overwrite each other.
func (r *GormJobRepository) SaveWithLock(ctx context.Context, job *generation.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.JobModelFromDomain(job)
		if err := lockedUpdate(tx, model, job.ID, job.Version); err != nil {
			return err
		}
		for i := range job.Steps {
			stepModel := models.StepModelFromDomain(&job.Steps[i])
			if err := tx.Save(stepModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveStep persists a single step transition
func (r *GormJobRepository) SaveStep(ctx context.Context, step *generation.Step) error {
	model := models.StepModelFromDomain(step)
	return r.db.WithContext(ctx).Save(model).Error
}

// IsCancelRequested reads the current cancellation flag of a job
func (r *GormJobRepository) IsCancelRequested(ctx context.Context, id uuid.UUID) (bool, error) {
	var cancelRequested bool
	if err := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Select("cancel_requested").
		Where("id = ?", id).
		Scan(&cancelRequested).Error; err != nil {
		return false, err
	}
	return cancelRequested, nil
}

// CountForAgency counts jobs of an agency matching the filter
func (r *GormJobRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.JobModel{}).Where("agency_id = ?", agencyID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts jobs by status across all agencies
func (r *GormJobRepository) CountByStatus(ctx context.Context, status generation.JobStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormJobRepository) loadWithSteps(ctx context.Context, model *models.JobModel) (*generation.Job, error) {
	job := model.ToDomain()

	var stepModels []models.StepModel
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", model.ID).
		Order("ordinal ASC").
		Find(&stepModels).Error; err != nil {
		return nil, err
	}

	job.Steps = make([]generation.Step, len(stepModels))
	for i, stepModel := range stepModels {
		job.Steps[i] = stepModel.ToDomain()
	}
	return job, nil
}

func (r *GormJobRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, JobSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormJobRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}
	return query
}

// Ensure GormJobRepository implements generation.JobRepository
var _ generation.JobRepository = (*GormJobRepository)(nil)
