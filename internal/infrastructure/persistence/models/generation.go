package models

import (
	"time"

	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/google/uuid"
)

// JobModel is the persistence model for the generation Job domain entity.
// Steps live in their own table and are loaded by the repository.
type JobModel struct {
	AgencyAggregateModel
	ClientID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type            generation.JobType   `gorm:"type:varchar(20);not null"`
	Brief           string               `gorm:"type:text;not null"`
	Status          generation.JobStatus `gorm:"type:varchar(20);not null;default:'queued';index"`
	Attempts        int                  `gorm:"not null;default:0"`
	MaxAttempts     int                  `gorm:"not null;default:3"`
	EstimatedTokens int64                `gorm:"not null;default:0"`
	ActualTokens    int64                `gorm:"not null;default:0"`
	RunAfter        time.Time            `gorm:"not null;index"`
	WorkerID        string               `gorm:"type:varchar(100)"`
	StartedAt       *time.Time
	FinishedAt      *time.Time
	CancelRequested bool   `gorm:"not null;default:false"`
	LastError       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "generation_jobs"
}

// ToDomain converts the persistence model to a domain Job entity.
func (m *JobModel) ToDomain() *generation.Job {
	return &generation.Job{
		AgencyAggregateRoot: m.agencyAggregateRoot(),
		ClientID:            m.ClientID,
		Type:                m.Type,
		Brief:               m.Brief,
		Status:              m.Status,
		Attempts:            m.Attempts,
		MaxAttempts:         m.MaxAttempts,
		EstimatedTokens:     m.EstimatedTokens,
		ActualTokens:        m.ActualTokens,
		RunAfter:            m.RunAfter,
		WorkerID:            m.WorkerID,
		StartedAt:           m.StartedAt,
		FinishedAt:          m.FinishedAt,
		CancelRequested:     m.CancelRequested,
		LastError:           m.LastError,
		Steps:               make([]generation.Step, 0),
	}
}

// FromDomain populates the persistence model from a domain Job entity.
func (m *JobModel) FromDomain(j *generation.Job) {
	m.FromDomainAgencyAggregateRoot(j.AgencyAggregateRoot)
	m.ClientID = j.ClientID
	m.Type = j.Type
	m.Brief = j.Brief
	m.Status = j.Status
	m.Attempts = j.Attempts
	m.MaxAttempts = j.MaxAttempts
	m.EstimatedTokens = j.EstimatedTokens
	m.ActualTokens = j.ActualTokens
	m.RunAfter = j.RunAfter
	m.WorkerID = j.WorkerID
	m.StartedAt = j.StartedAt
	m.FinishedAt = j.FinishedAt
	m.CancelRequested = j.CancelRequested
	m.LastError = j.LastError
}

// JobModelFromDomain creates a new persistence model from a domain Job entity.
func JobModelFromDomain(j *generation.Job) *JobModel {
	m := &JobModel{}
	m.FromDomain(j)
	return m
}

// StepModel is the persistence model for the generation Step domain entity.
type StepModel struct {
	BaseModel
	AgencyID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	JobID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Ordinal    int                   `gorm:"not null"`
	Kind       generation.StepKind   `gorm:"type:varchar(20);not null"`
	Status     generation.StepStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	InputJSON  string                `gorm:"type:jsonb;default:'{}'"`
	OutputJSON string                `gorm:"type:jsonb;default:'{}'"`
	TokensUsed int64                 `gorm:"not null;default:0"`
	Error      string                `gorm:"type:text"`
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// TableName returns the table name for GORM
func (StepModel) TableName() string {
	return "generation_steps"
}

// ToDomain converts the persistence model to a domain Step entity.
func (m *StepModel) ToDomain() generation.Step {
	return generation.Step{
		BaseEntity: m.BaseModel.ToDomain(),
		AgencyID:   m.AgencyID,
		JobID:      m.JobID,
		Ordinal:    m.Ordinal,
		Kind:       m.Kind,
		Status:     m.Status,
		InputJSON:  m.InputJSON,
		OutputJSON: m.OutputJSON,
		TokensUsed: m.TokensUsed,
		Error:      m.Error,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}

// FromDomain populates the persistence model from a domain Step entity.
func (m *StepModel) FromDomain(s *generation.Step) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.AgencyID = s.AgencyID
	m.JobID = s.JobID
	m.Ordinal = s.Ordinal
	m.Kind = s.Kind
	m.Status = s.Status
	m.InputJSON = s.InputJSON
	m.OutputJSON = s.OutputJSON
	m.TokensUsed = s.TokensUsed
	m.Error = s.Error
	m.StartedAt = s.StartedAt
	m.FinishedAt = s.FinishedAt
}

// StepModelFromDomain creates a new persistence model from a domain Step entity.
func StepModelFromDomain(s *generation.Step) *StepModel {
	m := &StepModel{}
	m.FromDomain(s)
	return m
}
