package generation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/agencyhub/backend/internal/application/billing"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/domain/shared"
)

// tokensPerStepEstimate is the reservation made per pipeline step when a
// job is queued. Settlement against actual usage happens when the job
// finishes.
const tokensPerStepEstimate = 2500

// EstimateTokens returns the token reservation for a job type
func EstimateTokens(jobType generation.JobType) int64 {
	return int64(len(generation.StepKindsFor(jobType))) * tokensPerStepEstimate
}

// JobService manages the lifecycle of generation jobs: queueing with a
// token reservation, listing, inspection and cancellation.
type JobService struct {
	jobRepo    generation.JobRepository
	clientRepo client.Repository
	tokens     *appbilling.TokenService
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo generation.JobRepository,
	clientRepo client.Repository,
	tokens *appbilling.TokenService,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobRepo:    jobRepo,
		clientRepo: clientRepo,
		tokens:     tokens,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *JobService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains and publishes the aggregate's domain events
func (s *JobService) publishEvents(ctx context.Context, job *generation.Job) {
	if s.events == nil {
		return
	}
	for _, event := range job.GetDomainEvents() {
		_ = s.events.Publish(ctx, event)
	}
	job.ClearDomainEvents()
}

// CreateJobInput carries the data needed to queue a generation job
type CreateJobInput struct {
	AgencyID  uuid.UUID
	ClientID  uuid.UUID
	CreatedBy uuid.UUID
	Type      generation.JobType
	Brief     string
}

// CreateJob queues a generation job after reserving the estimated token
// cost. Jobs for archived clients are rejected.
func (s *JobService) CreateJob(ctx context.Context, input CreateJobInput) (*JobDTO, error) {
	cl, err := s.clientRepo.FindByIDForAgency(ctx, input.AgencyID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !cl.IsActive() {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot generate content for an archived client")
	}

	job, err := generation.NewJob(input.AgencyID, input.ClientID, input.CreatedBy, input.Type, input.Brief, EstimateTokens(input.Type))
	if err != nil {
		return nil, err
	}

	if _, err := s.tokens.Reserve(ctx, input.AgencyID, job.EstimatedTokens, job.ID); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		// Return the hold; the job never made it into the queue.
		if _, releaseErr := s.tokens.Release(ctx, input.AgencyID, job.EstimatedTokens, job.ID); releaseErr != nil {
			s.logger.Error("Failed to release reservation for unsaved job",
				zap.String("job_id", job.ID.String()),
				zap.Error(releaseErr))
		}
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	s.publishEvents(ctx, job)

	s.logger.Info("Queued generation job",
		zap.String("agency_id", input.AgencyID.String()),
		zap.String("job_id", job.ID.String()),
		zap.String("type", string(job.Type)),
		zap.Int64("estimated_tokens", job.EstimatedTokens))

	return ToJobDTO(job), nil
}

// GetJob returns a job with its steps, scoped to an agency
func (s *JobService) GetJob(ctx context.Context, agencyID, jobID uuid.UUID) (*JobDTO, error) {
	job, err := s.jobRepo.FindByIDForAgency(ctx, agencyID, jobID)
	if err != nil {
		return nil, err
	}
	return ToJobDTO(job), nil
}

// ListJobs lists jobs of an agency
func (s *JobService) ListJobs(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[JobDTO], error) {
	jobs, err := s.jobRepo.FindAllForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.jobRepo.CountForAgency(ctx, agencyID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]JobDTO, len(jobs))
	for i := range jobs {
		dtos[i] = *ToJobDTO(&jobs[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// CancelJob cancels a job. Queued jobs are cancelled immediately and
// their reservation released; running jobs get a cancellation request
// the worker honors at the next step boundary.
func (s *JobService) CancelJob(ctx context.Context, agencyID, jobID uuid.UUID) (*JobDTO, error) {
	job, err := s.jobRepo.FindByIDForAgency(ctx, agencyID, jobID)
	if err != nil {
		return nil, err
	}

	wasQueued := job.Status == generation.JobStatusQueued

	if err := job.Cancel(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	s.publishEvents(ctx, job)

	if wasQueued {
		if _, err := s.tokens.Release(ctx, agencyID, job.EstimatedTokens, job.ID); err != nil {
			s.logger.Error("Failed to release reservation for cancelled job",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Cancelled generation job",
		zap.String("agency_id", agencyID.String()),
		zap.String("job_id", job.ID.String()),
		zap.Bool("was_queued", wasQueued))

	return ToJobDTO(job), nil
}

// QueueStats reports job counts by status across all agencies
func (s *JobService) QueueStats(ctx context.Context) (*QueueStatsDTO, error) {
	stats := &QueueStatsDTO{}
	for status, target := range map[generation.JobStatus]*int64{
		generation.JobStatusQueued:    &stats.Queued,
		generation.JobStatusRunning:   &stats.Running,
		generation.JobStatusCompleted: &stats.Completed,
		generation.JobStatusFailed:    &stats.Failed,
		generation.JobStatusCancelled: &stats.Cancelled,
	} {
		count, err := s.jobRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		*target = count
	}
	return stats, nil
}
