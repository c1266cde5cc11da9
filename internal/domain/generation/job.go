package generation

import (
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobType represents the kind of content a job generates
type JobType string

const (
	JobTypeFullCampaign JobType = "full_campaign" // Idea, copy, image, and design
	JobTypeSinglePost   JobType = "single_post"   // Copy, image, and design for one post
)

// JobStatus represents the status of a generation job
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// DefaultMaxAttempts is how many times a job is run before failing permanently
const DefaultMaxAttempts = 3

// Job represents an AI content generation job. Jobs are durable queue
// entries: workers claim them with an atomic conditional update, run
// their steps in order, and persist every transition.
type Job struct {
	shared.AgencyAggregateRoot
	ClientID        uuid.UUID
	Type            JobType
	Brief           string
	Status          JobStatus
	Attempts        int
	MaxAttempts     int
	EstimatedTokens int64
	ActualTokens    int64
	RunAfter        time.Time // Not claimable before this time (retry backoff)
	WorkerID        string
	StartedAt       *time.Time
	FinishedAt      *time.Time
	CancelRequested bool
	LastError       string
	Steps           []Step
}

// NewJob creates a queued generation job with its ordered steps
func NewJob(agencyID, clientID, createdBy uuid.UUID, jobType JobType, brief string, estimatedTokens int64) (*Job, error) {
	if err := validateJobType(jobType); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if strings.TrimSpace(brief) == "" {
		return nil, shared.NewDomainError("INVALID_BRIEF", "Brief cannot be empty")
	}
	if len(brief) > 10000 {
		return nil, shared.NewDomainError("INVALID_BRIEF", "Brief cannot exceed 10000 characters")
	}
	if estimatedTokens <= 0 {
		return nil, shared.NewDomainError("INVALID_ESTIMATE", "Token estimate must be positive")
	}

	job := &Job{
		AgencyAggregateRoot: shared.NewAgencyAggregateRootWithCreator(agencyID, createdBy),
		ClientID:            clientID,
		Type:                jobType,
		Brief:               brief,
		Status:              JobStatusQueued,
		MaxAttempts:         DefaultMaxAttempts,
		EstimatedTokens:     estimatedTokens,
		RunAfter:            time.Now(),
	}

	for i, kind := range StepKindsFor(jobType) {
		job.Steps = append(job.Steps, NewStep(job.AgencyID, job.ID, i+1, kind))
	}

	job.AddDomainEvent(NewJobQueuedEvent(job))

	return job, nil
}

// StartRun records that a worker claimed the job and is running it.
// The atomic status flip from queued to running happens in the repository;
// this applies the matching state to an already claimed aggregate.
func (j *Job) StartRun(workerID string) error {
	if j.Status != JobStatusQueued {
		return shared.NewDomainError("INVALID_STATE", "Only queued jobs can start running")
	}

	now := time.Now()
	j.Status = JobStatusRunning
	j.WorkerID = workerID
	j.Attempts++
	j.StartedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()

	return nil
}

// Complete marks the job as completed with the tokens actually consumed
func (j *Job) Complete(actualTokens int64) error {
	if j.Status != JobStatusRunning {
		return shared.NewDomainError("INVALID_STATE", "Only running jobs can complete")
	}
	if actualTokens < 0 {
		return shared.NewDomainError("INVALID_TOKENS", "Actual tokens cannot be negative")
	}

	now := time.Now()
	j.Status = JobStatusCompleted
	j.ActualTokens = actualTokens
	j.FinishedAt = &now
	j.LastError = ""
	j.UpdatedAt = now
	j.IncrementVersion()

	j.AddDomainEvent(NewJobFinishedEvent(j))

	return nil
}

// ShouldRetry returns true if a failed run leaves attempts remaining
func (j *Job) ShouldRetry() bool {
	return j.Attempts < j.MaxAttempts
}

// ScheduleRetry requeues a running job after a failure with backoff
func (j *Job) ScheduleRetry(cause string, backoff time.Duration) error {
	if j.Status != JobStatusRunning {
		return shared.NewDomainError("INVALID_STATE", "Only running jobs can be retried")
	}
	if !j.ShouldRetry() {
		return shared.NewDomainError("MAX_ATTEMPTS_REACHED", "Job has no attempts remaining")
	}

	j.Status = JobStatusQueued
	j.WorkerID = ""
	j.LastError = cause
	j.RunAfter = time.Now().Add(backoff)
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}

// Fail marks the job as permanently failed, recording tokens already consumed
func (j *Job) Fail(cause string, consumedTokens int64) error {
	if j.Status != JobStatusRunning {
		return shared.NewDomainError("INVALID_STATE", "Only running jobs can fail")
	}

	now := time.Now()
	j.Status = JobStatusFailed
	j.ActualTokens = consumedTokens
	j.LastError = cause
	j.FinishedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()

	j.AddDomainEvent(NewJobFinishedEvent(j))

	return nil
}

// Cancel cancels the job. A queued job is cancelled immediately; a
// running job gets a cancellation request honored at the next step boundary.
func (j *Job) Cancel() error {
	switch j.Status {
	case JobStatusQueued:
		now := time.Now()
		j.Status = JobStatusCancelled
		j.FinishedAt = &now
		j.UpdatedAt = now
		j.IncrementVersion()
		j.AddDomainEvent(NewJobFinishedEvent(j))
		return nil
	case JobStatusRunning:
		j.CancelRequested = true
		j.UpdatedAt = time.Now()
		j.IncrementVersion()
		return nil
	default:
		return shared.NewDomainError("INVALID_STATE", "Job has already finished")
	}
}

// ConfirmCancelled finalizes a cooperative cancellation of a running job
func (j *Job) ConfirmCancelled(consumedTokens int64) error {
	if j.Status != JobStatusRunning {
		return shared.NewDomainError("INVALID_STATE", "Only running jobs can confirm cancellation")
	}

	now := time.Now()
	j.Status = JobStatusCancelled
	j.ActualTokens = consumedTokens
	j.FinishedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()

	j.AddDomainEvent(NewJobFinishedEvent(j))

	return nil
}

// IsTerminal returns true if the job reached a final status
func (j *Job) IsTerminal() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// ConsumedTokens sums the tokens used by the job's steps so far
func (j *Job) ConsumedTokens() int64 {
	var total int64
	for _, step := range j.Steps {
		total += step.TokensUsed
	}
	return total
}

func validateJobType(jobType JobType) error {
	switch jobType {
	case JobTypeFullCampaign, JobTypeSinglePost:
		return nil
	default:
		return shared.NewDomainError("INVALID_JOB_TYPE", "Invalid job type")
	}
}
