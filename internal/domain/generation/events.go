package generation

import (
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeJob = "GenerationJob"

// Event type constants
const (
	EventTypeJobQueued   = "GenerationJobQueued"
	EventTypeJobFinished = "GenerationJobFinished"
)

// JobQueuedEvent is published when a job enters the queue
type JobQueuedEvent struct {
	shared.BaseDomainEvent
	Type            JobType `json:"type"`
	EstimatedTokens int64   `json:"estimated_tokens"`
}

// NewJobQueuedEvent creates a new JobQueuedEvent
func NewJobQueuedEvent(job *Job) *JobQueuedEvent {
	return &JobQueuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobQueued, AggregateTypeJob, job.ID, job.AgencyID),
		Type:            job.Type,
		EstimatedTokens: job.EstimatedTokens,
	}
}

// JobFinishedEvent is published when a job reaches a terminal status
type JobFinishedEvent struct {
	shared.BaseDomainEvent
	Status       JobStatus `json:"status"`
	ActualTokens int64     `json:"actual_tokens"`
	Attempts     int       `json:"attempts"`
}

// NewJobFinishedEvent creates a new JobFinishedEvent
func NewJobFinishedEvent(job *Job) *JobFinishedEvent {
	return &JobFinishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobFinished, AggregateTypeJob, job.ID, job.AgencyID),
		Status:          job.Status,
		ActualTokens:    job.ActualTokens,
		Attempts:        job.Attempts,
	}
}
