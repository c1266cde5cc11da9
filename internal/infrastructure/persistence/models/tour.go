package models

import (
	"encoding/json"

	"github.com/agencyhub/backend/internal/domain/tour"
	"github.com/google/uuid"
)

// TourProgressModel is the persistence model for the tour Progress domain entity.
// Completed steps are stored as a JSON array.
type TourProgressModel struct {
	BaseModel
	AgencyID       uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_tour_user_key,unique"`
	TourKey        string    `gorm:"type:varchar(100);not null;index:idx_tour_user_key,unique"`
	CompletedSteps string    `gorm:"type:jsonb;not null;default:'[]'"`
	LastSeenStep   string    `gorm:"type:varchar(100)"`
	Completed      bool      `gorm:"not null;default:false"`
	Dismissed      bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TourProgressModel) TableName() string {
	return "tour_progress"
}

// ToDomain converts the persistence model to a domain Progress entity.
func (m *TourProgressModel) ToDomain() (*tour.Progress, error) {
	steps := make([]string, 0)
	if m.CompletedSteps != "" {
		if err := json.Unmarshal([]byte(m.CompletedSteps), &steps); err != nil {
			return nil, err
		}
	}

	return &tour.Progress{
		BaseEntity:     m.BaseModel.ToDomain(),
		AgencyID:       m.AgencyID,
		UserID:         m.UserID,
		TourKey:        m.TourKey,
		CompletedSteps: steps,
		LastSeenStep:   m.LastSeenStep,
		Completed:      m.Completed,
		Dismissed:      m.Dismissed,
	}, nil
}

// FromDomain populates the persistence model from a domain Progress entity.
func (m *TourProgressModel) FromDomain(p *tour.Progress) error {
	steps, err := json.Marshal(p.CompletedSteps)
	if err != nil {
		return err
	}

	m.FromDomainBaseEntity(p.BaseEntity)
	m.AgencyID = p.AgencyID
	m.UserID = p.UserID
	m.TourKey = p.TourKey
	m.CompletedSteps = string(steps)
	m.LastSeenStep = p.LastSeenStep
	m.Completed = p.Completed
	m.Dismissed = p.Dismissed
	return nil
}

// TourProgressModelFromDomain creates a new persistence model from a domain Progress entity.
func TourProgressModelFromDomain(p *tour.Progress) (*TourProgressModel, error) {
	m := &TourProgressModel{}
	if err := m.FromDomain(p); err != nil {
		return nil, err
	}
	return m, nil
}
