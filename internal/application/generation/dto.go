package generation

import (
	"time"

	"github.com/google/uuid"

	"github.com/agencyhub/backend/internal/domain/generation"
)

// JobDTO is the API representation of a generation job
type JobDTO struct {
	ID              uuid.UUID  `json:"id"`
	AgencyID        uuid.UUID  `json:"agency_id"`
	ClientID        uuid.UUID  `json:"client_id"`
	Type            string     `json:"type"`
	Brief           string     `json:"brief"`
	Status          string     `json:"status"`
	Attempts        int        `json:"attempts"`
	MaxAttempts     int        `json:"max_attempts"`
	EstimatedTokens int64      `json:"estimated_tokens"`
	ActualTokens    int64      `json:"actual_tokens"`
	CancelRequested bool       `json:"cancel_requested"`
	LastError       string     `json:"last_error,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Steps           []StepDTO  `json:"steps,omitempty"`
}

// StepDTO is the API representation of a generation step
type StepDTO struct {
	ID         uuid.UUID  `json:"id"`
	Ordinal    int        `json:"ordinal"`
	Kind       string     `json:"kind"`
	Status     string     `json:"status"`
	OutputJSON string     `json:"output,omitempty"`
	TokensUsed int64      `json:"tokens_used"`
	Error      string     `json:"error,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// QueueStatsDTO reports queue depth by status
type QueueStatsDTO struct {
	Queued    int64 `json:"queued"`
	Running   int64 `json:"running"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Cancelled int64 `json:"cancelled"`
}

// ToJobDTO converts a domain job to a DTO, including its steps
func ToJobDTO(job *generation.Job) *JobDTO {
	dto := &JobDTO{
		ID:              job.ID,
		AgencyID:        job.AgencyID,
		ClientID:        job.ClientID,
		Type:            string(job.Type),
		Brief:           job.Brief,
		Status:          string(job.Status),
		Attempts:        job.Attempts,
		MaxAttempts:     job.MaxAttempts,
		EstimatedTokens: job.EstimatedTokens,
		ActualTokens:    job.ActualTokens,
		CancelRequested: job.CancelRequested,
		LastError:       job.LastError,
		StartedAt:       job.StartedAt,
		FinishedAt:      job.FinishedAt,
		CreatedAt:       job.CreatedAt,
	}
	for i := range job.Steps {
		dto.Steps = append(dto.Steps, ToStepDTO(&job.Steps[i]))
	}
	return dto
}

// ToStepDTO converts a domain step to a DTO
func ToStepDTO(step *generation.Step) StepDTO {
	return StepDTO{
		ID:         step.ID,
		Ordinal:    step.Ordinal,
		Kind:       string(step.Kind),
		Status:     string(step.Status),
		OutputJSON: step.OutputJSON,
		TokensUsed: step.TokensUsed,
		Error:      step.Error,
		StartedAt:  step.StartedAt,
		FinishedAt: step.FinishedAt,
	}
}
