package social

import (
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PublicationStatus represents the outcome of one publish attempt
type PublicationStatus string

const (
	PublicationStatusPending   PublicationStatus = "pending"
	PublicationStatusSucceeded PublicationStatus = "succeeded"
	PublicationStatusFailed    PublicationStatus = "failed"
)

// Publication records one publish attempt of a post to a social account.
// One row exists per (post, account) pair per attempt.
type Publication struct {
	shared.AgencyAggregateRoot
	PostID       uuid.UUID
	AccountID    uuid.UUID
	Platform     Platform
	Status       PublicationStatus
	ExternalID   string // Post ID assigned by the platform
	ErrorMessage string
	AttemptedAt  *time.Time
}

// NewPublication creates a pending publication record
func NewPublication(agencyID, postID, accountID uuid.UUID, platform Platform) (*Publication, error) {
	if postID == uuid.Nil || accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Post ID and account ID are required")
	}
	if err := ValidatePlatform(platform); err != nil {
		return nil, err
	}

	return &Publication{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(agencyID),
		PostID:              postID,
		AccountID:           accountID,
		Platform:            platform,
		Status:              PublicationStatusPending,
	}, nil
}

// MarkSucceeded records a successful publish with the platform-assigned ID
func (p *Publication) MarkSucceeded(externalID string) error {
	if p.Status != PublicationStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Publication already resolved")
	}

	now := time.Now()
	p.Status = PublicationStatusSucceeded
	p.ExternalID = externalID
	p.AttemptedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// MarkFailed records a failed publish attempt
func (p *Publication) MarkFailed(errorMessage string) error {
	if p.Status != PublicationStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Publication already resolved")
	}

	now := time.Now()
	p.Status = PublicationStatusFailed
	p.ErrorMessage = errorMessage
	p.AttemptedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}
