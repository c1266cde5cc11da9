package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAgencyRepository implements AgencyRepository using GORM
type GormAgencyRepository struct {
	db *gorm.DB
}

// NewGormAgencyRepository creates a new GormAgencyRepository
func NewGormAgencyRepository(db *gorm.DB) *GormAgencyRepository {
	return &GormAgencyRepository{db: db}
}

// FindByID finds an agency by its ID
func (r *GormAgencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Agency, error) {
	var model models.AgencyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds an agency by its unique slug
func (r *GormAgencyRepository) FindBySlug(ctx context.Context, slug string) (*identity.Agency, error) {
	var model models.AgencyModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(slug)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all agencies matching the filter
func (r *GormAgencyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Agency, error) {
	var agencyModels []models.AgencyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AgencyModel{}), filter)

	if err := query.Find(&agencyModels).Error; err != nil {
		return nil, err
	}

	agencies := make([]identity.Agency, len(agencyModels))
	for i, model := range agencyModels {
		agencies[i] = *model.ToDomain()
	}
	return agencies, nil
}

// Save creates or updates an agency
func (r *GormAgencyRepository) Save(ctx context.Context, agency *identity.Agency) error {
	model := models.AgencyModelFromDomain(agency)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates an agency with an optimistic version check
func (r *GormAgencyRepository) SaveWithLock(ctx context.Context, agency *identity.Agency) error {
	model := models.AgencyModelFromDomain(agency)
	return lockedUpdate(r.db.WithContext(ctx), model, agency.ID, agency.Version)
}

// Count counts agencies matching the filter
func (r *GormAgencyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AgencyModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if an agency with the given slug exists
func (r *GormAgencyRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AgencyModel{}).
		Where("slug = ?", strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormAgencyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, AgencySortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormAgencyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR slug ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormAgencyRepository implements AgencyRepository
var _ identity.AgencyRepository = (*GormAgencyRepository)(nil)
