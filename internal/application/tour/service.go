// Package tour tracks per-user onboarding tour progress.
package tour

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/tour"
)

// ProgressDTO is the tour progress representation returned to the API
type ProgressDTO struct {
	TourKey        string    `json:"tour_key"`
	CompletedSteps []string  `json:"completed_steps"`
	LastSeenStep   string    `json:"last_seen_step,omitempty"`
	Completed      bool      `json:"completed"`
	Dismissed      bool      `json:"dismissed"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toProgressDTO(p *tour.Progress) *ProgressDTO {
	steps := make([]string, len(p.CompletedSteps))
	copy(steps, p.CompletedSteps)

	return &ProgressDTO{
		TourKey:        p.TourKey,
		CompletedSteps: steps,
		LastSeenStep:   p.LastSeenStep,
		Completed:      p.Completed,
		Dismissed:      p.Dismissed,
		UpdatedAt:      p.UpdatedAt,
	}
}

// Service handles tour progress operations for the current user
type Service struct {
	repo   tour.Repository
	logger *zap.Logger
}

// NewService creates a new tour service
func NewService(repo tour.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListProgress returns all tour progress of a user
func (s *Service) ListProgress(ctx context.Context, agencyID, userID uuid.UUID) ([]ProgressDTO, error) {
	records, err := s.repo.FindByUser(ctx, agencyID, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProgressDTO, len(records))
	for i := range records {
		dtos[i] = *toProgressDTO(&records[i])
	}
	return dtos, nil
}

// RecordStepInput contains input for recording tour progress
type RecordStepInput struct {
	TourKey   string `json:"tour_key" binding:"required"`
	StepKey   string `json:"step_key" binding:"required"`
	Completed bool   `json:"completed"`
}

// RecordStep upserts progress for a tour: it creates the record on first
// touch, marks the step completed, and optionally completes the tour.
func (s *Service) RecordStep(ctx context.Context, agencyID, userID uuid.UUID, input RecordStepInput) (*ProgressDTO, error) {
	progress, err := s.findOrCreate(ctx, agencyID, userID, input.TourKey)
	if err != nil {
		return nil, err
	}

	if err := progress.RecordStep(input.StepKey); err != nil {
		return nil, err
	}
	if input.Completed {
		progress.MarkCompleted()
	}

	if err := s.repo.Save(ctx, progress); err != nil {
		return nil, err
	}
	return toProgressDTO(progress), nil
}

// Dismiss hides a tour for the user without completing it
func (s *Service) Dismiss(ctx context.Context, agencyID, userID uuid.UUID, tourKey string) (*ProgressDTO, error) {
	progress, err := s.findOrCreate(ctx, agencyID, userID, tourKey)
	if err != nil {
		return nil, err
	}

	progress.Dismiss()

	if err := s.repo.Save(ctx, progress); err != nil {
		return nil, err
	}
	return toProgressDTO(progress), nil
}

// Reset clears a tour's progress so it starts over
func (s *Service) Reset(ctx context.Context, agencyID, userID uuid.UUID, tourKey string) (*ProgressDTO, error) {
	progress, err := s.repo.FindByUserAndKey(ctx, agencyID, userID, tourKey)
	if err != nil {
		return nil, err
	}

	progress.Reset()

	if err := s.repo.Save(ctx, progress); err != nil {
		return nil, err
	}
	return toProgressDTO(progress), nil
}

func (s *Service) findOrCreate(ctx context.Context, agencyID, userID uuid.UUID, tourKey string) (*tour.Progress, error) {
	progress, err := s.repo.FindByUserAndKey(ctx, agencyID, userID, tourKey)
	if err == nil {
		return progress, nil
	}
	if err != shared.ErrNotFound {
		return nil, err
	}
	return tour.NewProgress(agencyID, userID, tourKey)
}
