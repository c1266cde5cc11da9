package generation

import (
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StepKind identifies a generation pipeline stage
type StepKind string

const (
	StepKindIdea   StepKind = "idea"   // Campaign concept and angles
	StepKindCopy   StepKind = "copy"   // Post copy and hashtags
	StepKindImage  StepKind = "image"  // Image prompt and asset
	StepKindDesign StepKind = "design" // Layout and color suggestions
)

// StepStatus represents the status of a generation step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepKindsFor returns the ordered step kinds for a job type.
// Single-post jobs skip the idea stage.
func StepKindsFor(jobType JobType) []StepKind {
	switch jobType {
	case JobTypeSinglePost:
		return []StepKind{StepKindCopy, StepKindImage, StepKindDesign}
	default:
		return []StepKind{StepKindIdea, StepKindCopy, StepKindImage, StepKindDesign}
	}
}

// Step is one ordered stage of a generation job
type Step struct {
	shared.BaseEntity
	AgencyID   uuid.UUID
	JobID      uuid.UUID
	Ordinal    int
	Kind       StepKind
	Status     StepStatus
	InputJSON  string
	OutputJSON string
	TokensUsed int64
	Error      string
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// NewStep creates a pending step
func NewStep(agencyID, jobID uuid.UUID, ordinal int, kind StepKind) Step {
	return Step{
		BaseEntity: shared.NewBaseEntity(),
		AgencyID:   agencyID,
		JobID:      jobID,
		Ordinal:    ordinal,
		Kind:       kind,
		Status:     StepStatusPending,
	}
}

// Start marks the step as running with its input payload
func (s *Step) Start(inputJSON string) error {
	if s.Status != StepStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending steps can start")
	}

	now := time.Now()
	s.Status = StepStatusRunning
	s.InputJSON = inputJSON
	s.StartedAt = &now
	s.UpdatedAt = now

	return nil
}

// Complete marks the step as completed with its output and token usage
func (s *Step) Complete(outputJSON string, tokensUsed int64) error {
	if s.Status != StepStatusRunning {
		return shared.NewDomainError("INVALID_STATE", "Only running steps can complete")
	}
	if tokensUsed < 0 {
		return shared.NewDomainError("INVALID_TOKENS", "Tokens used cannot be negative")
	}

	now := time.Now()
	s.Status = StepStatusCompleted
	s.OutputJSON = outputJSON
	s.TokensUsed = tokensUsed
	s.FinishedAt = &now
	s.UpdatedAt = now

	return nil
}

// Fail marks the step as failed. Tokens burned before the failure are
// recorded so settlement charges for them.
func (s *Step) Fail(errorMessage string, tokensUsed int64) error {
	if s.Status != StepStatusRunning {
		return shared.NewDomainError("INVALID_STATE", "Only running steps can fail")
	}
	if tokensUsed < 0 {
		return shared.NewDomainError("INVALID_TOKENS", "Tokens used cannot be negative")
	}

	now := time.Now()
	s.Status = StepStatusFailed
	s.Error = errorMessage
	s.TokensUsed = tokensUsed
	s.FinishedAt = &now
	s.UpdatedAt = now

	return nil
}

// Skip marks a pending step as skipped
func (s *Step) Skip() error {
	if s.Status != StepStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending steps can be skipped")
	}

	now := time.Now()
	s.Status = StepStatusSkipped
	s.FinishedAt = &now
	s.UpdatedAt = now

	return nil
}

// ResetForRetry returns a failed or running step to pending for the next attempt.
// Token usage from the aborted run is kept so billing stays accurate.
func (s *Step) ResetForRetry() {
	if s.Status == StepStatusFailed || s.Status == StepStatusRunning {
		s.Status = StepStatusPending
		s.Error = ""
		s.StartedAt = nil
		s.FinishedAt = nil
		s.UpdatedAt = time.Now()
	}
}

// IsResolved returns true if the step reached a final status
func (s *Step) IsResolved() bool {
	switch s.Status {
	case StepStatusCompleted, StepStatusFailed, StepStatusSkipped:
		return true
	}
	return false
}
