package persistence

import (
	"context"
	"errors"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/tour"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTourProgressRepository implements tour.Repository using GORM
type GormTourProgressRepository struct {
	db *gorm.DB
}

// NewGormTourProgressRepository creates a new GormTourProgressRepository
func NewGormTourProgressRepository(db *gorm.DB) *GormTourProgressRepository {
	return &GormTourProgressRepository{db: db}
}

// FindByUser lists all tour progress of a user
func (r *GormTourProgressRepository) FindByUser(ctx context.Context, agencyID, userID uuid.UUID) ([]tour.Progress, error) {
	var progressModels []models.TourProgressModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND user_id = ?", agencyID, userID).
		Order("tour_key ASC").
		Find(&progressModels).Error; err != nil {
		return nil, err
	}

	progresses := make([]tour.Progress, len(progressModels))
	for i, model := range progressModels {
		progress, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		progresses[i] = *progress
	}
	return progresses, nil
}

// FindByUserAndKey finds a user's progress for one tour
func (r *GormTourProgressRepository) FindByUserAndKey(ctx context.Context, agencyID, userID uuid.UUID, tourKey string) (*tour.Progress, error) {
	var model models.TourProgressModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND user_id = ? AND tour_key = ?", agencyID, userID, tourKey).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save creates or updates a progress record
func (r *GormTourProgressRepository) Save(ctx context.Context, progress *tour.Progress) error {
	model, err := models.TourProgressModelFromDomain(progress)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormTourProgressRepository implements tour.Repository
var _ tour.Repository = (*GormTourProgressRepository)(nil)
