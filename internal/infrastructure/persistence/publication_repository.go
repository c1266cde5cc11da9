package persistence

import (
	"context"
	"errors"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPublicationRepository implements social.PublicationRepository using GORM
type GormPublicationRepository struct {
	db *gorm.DB
}

// NewGormPublicationRepository creates a new GormPublicationRepository
func NewGormPublicationRepository(db *gorm.DB) *GormPublicationRepository {
	return &GormPublicationRepository{db: db}
}

// FindByID finds a publication by its ID
func (r *GormPublicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Publication, error) {
	var model models.PublicationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPost finds all publications of a post
func (r *GormPublicationRepository) FindByPost(ctx context.Context, agencyID, postID uuid.UUID) ([]social.Publication, error) {
	var publicationModels []models.PublicationModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND post_id = ?", agencyID, postID).
		Order("created_at ASC").
		Find(&publicationModels).Error; err != nil {
		return nil, err
	}

	publications := make([]social.Publication, len(publicationModels))
	for i, model := range publicationModels {
		publications[i] = *model.ToDomain()
	}
	return publications, nil
}

// FindAllForAgency finds publications of an agency matching the filter
func (r *GormPublicationRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]social.Publication, error) {
	query := r.db.WithContext(ctx).Model(&models.PublicationModel{}).Where("agency_id = ?", agencyID)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "platform":
			query = query.Where("platform = ?", value)
		}
	}

	var publicationModels []models.PublicationModel
	if err := query.Order("created_at DESC").Find(&publicationModels).Error; err != nil {
		return nil, err
	}

	publications := make([]social.Publication, len(publicationModels))
	for i, model := range publicationModels {
		publications[i] = *model.ToDomain()
	}
	return publications, nil
}

// Save creates or updates a publication
func (r *GormPublicationRepository) Save(ctx context.Context, publication *social.Publication) error {
	model := models.PublicationModelFromDomain(publication)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountForAgency counts publications of an agency matching the filter
func (r *GormPublicationRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PublicationModel{}).
		Where("agency_id = ?", agencyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPublicationRepository implements social.PublicationRepository
var _ social.PublicationRepository = (*GormPublicationRepository)(nil)
