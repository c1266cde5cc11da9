package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agencyhub/backend/internal/domain/campaign"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCampaignRepository implements campaign.Repository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindByID finds a campaign by its ID
func (r *GormCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForAgency finds a campaign scoped to an agency
func (r *GormCampaignRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*campaign.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND id = ?", agencyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForAgency finds campaigns of an agency matching the filter
func (r *GormCampaignRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]campaign.Campaign, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CampaignModel{}).Where("agency_id = ?", agencyID),
		filter,
	)
	return r.findCampaigns(query)
}

// FindByClient finds campaigns of a client matching the filter
func (r *GormCampaignRepository) FindByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]campaign.Campaign, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CampaignModel{}).
			Where("agency_id = ? AND client_id = ?", agencyID, clientID),
		filter,
	)
	return r.findCampaigns(query)
}

// FindOverlapping finds campaigns whose window overlaps [from, to]
func (r *GormCampaignRepository) FindOverlapping(ctx context.Context, agencyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]campaign.Campaign, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CampaignModel{}).
			Where("agency_id = ? AND start_date <= ? AND end_date >= ?", agencyID, to, from),
		filter,
	)
	return r.findCampaigns(query)
}

func (r *GormCampaignRepository) findCampaigns(query *gorm.DB) ([]campaign.Campaign, error) {
	var campaignModels []models.CampaignModel
	if err := query.Find(&campaignModels).Error; err != nil {
		return nil, err
	}

	campaigns := make([]campaign.Campaign, len(campaignModels))
	for i, model := range campaignModels {
		campaigns[i] = *model.ToDomain()
	}
	return campaigns, nil
}

// Save creates or updates a campaign
func (r *GormCampaignRepository) Save(ctx context.Context, c *campaign.Campaign) error {
	model := models.CampaignModelFromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a campaign with an optimistic version check
func (r *GormCampaignRepository) SaveWithLock(ctx context.Context, c *campaign.Campaign) error {
	model := models.CampaignModelFromDomain(c)
	return lockedUpdate(r.db.WithContext(ctx), model, c.ID, c.Version)
}

// Delete deletes a campaign
func (r *GormCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CampaignModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForAgency counts campaigns of an agency matching the filter
func (r *GormCampaignRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.CampaignModel{}).Where("agency_id = ?", agencyID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveByClient counts non-archived campaigns of a client
func (r *GormCampaignRepository) CountActiveByClient(ctx context.Context, agencyID, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CampaignModel{}).
		Where("agency_id = ? AND client_id = ? AND status <> ?", agencyID, clientID, campaign.StatusArchived).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCampaignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, CampaignSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormCampaignRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR objective ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}

	return query
}

// Ensure GormCampaignRepository implements campaign.Repository
var _ campaign.Repository = (*GormCampaignRepository)(nil)
