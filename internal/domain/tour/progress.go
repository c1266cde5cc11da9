package tour

import (
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Progress tracks one user's state in one onboarding tour. The tour
// content itself lives in the frontend; the backend only stores which
// steps each user has seen.
type Progress struct {
	shared.BaseEntity
	AgencyID       uuid.UUID
	UserID         uuid.UUID
	TourKey        string
	CompletedSteps []string
	LastSeenStep   string
	Completed      bool
	Dismissed      bool
}

// NewProgress starts tracking a tour for a user
func NewProgress(agencyID, userID uuid.UUID, tourKey string) (*Progress, error) {
	if err := validateTourKey(tourKey); err != nil {
		return nil, err
	}

	return &Progress{
		BaseEntity:     shared.NewBaseEntity(),
		AgencyID:       agencyID,
		UserID:         userID,
		TourKey:        tourKey,
		CompletedSteps: make([]string, 0),
	}, nil
}

// RecordStep marks a step as completed and remembers it as last seen
func (p *Progress) RecordStep(stepKey string) error {
	if strings.TrimSpace(stepKey) == "" {
		return shared.NewDomainError("INVALID_STEP", "Step key cannot be empty")
	}

	if !p.HasCompletedStep(stepKey) {
		p.CompletedSteps = append(p.CompletedSteps, stepKey)
	}
	p.LastSeenStep = stepKey
	p.UpdatedAt = time.Now()

	return nil
}

// MarkCompleted marks the whole tour as completed
func (p *Progress) MarkCompleted() {
	p.Completed = true
	p.UpdatedAt = time.Now()
}

// Dismiss hides the tour for this user without completing it
func (p *Progress) Dismiss() {
	p.Dismissed = true
	p.UpdatedAt = time.Now()
}

// Reset clears all progress so the tour starts over
func (p *Progress) Reset() {
	p.CompletedSteps = make([]string, 0)
	p.LastSeenStep = ""
	p.Completed = false
	p.Dismissed = false
	p.UpdatedAt = time.Now()
}

// HasCompletedStep returns true if the step was already recorded
func (p *Progress) HasCompletedStep(stepKey string) bool {
	for _, s := range p.CompletedSteps {
		if s == stepKey {
			return true
		}
	}
	return false
}

func validateTourKey(tourKey string) error {
	if strings.TrimSpace(tourKey) == "" {
		return shared.NewDomainError("INVALID_TOUR_KEY", "Tour key cannot be empty")
	}
	if len(tourKey) > 100 {
		return shared.NewDomainError("INVALID_TOUR_KEY", "Tour key cannot exceed 100 characters")
	}
	return nil
}
