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

// GormPostRepository implements campaign.PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// FindByID finds a post by its ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*campaign.Post, error) {
	var model models.PostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDForAgency finds a post scoped to an agency
func (r *GormPostRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*campaign.Post, error) {
	var model models.PostModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND id = ?", agencyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForAgency finds posts of an agency matching the filter
func (r *GormPostRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]campaign.Post, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PostModel{}).Where("agency_id = ?", agencyID),
		filter,
	)
	return r.findPosts(query)
}

// FindByCampaign finds posts of a campaign matching the filter
func (r *GormPostRepository) FindByCampaign(ctx context.Context, agencyID, campaignID uuid.UUID, filter shared.Filter) ([]campaign.Post, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PostModel{}).
			Where("agency_id = ? AND campaign_id = ?", agencyID, campaignID),
		filter,
	)
	return r.findPosts(query)
}

// FindScheduledInRange finds scheduled posts in a calendar window
func (r *GormPostRepository) FindScheduledInRange(ctx context.Context, agencyID uuid.UUID, from, to time.Time) ([]campaign.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("agency_id = ? AND status = ? AND scheduled_at >= ? AND scheduled_at <= ?",
			agencyID, campaign.PostStatusScheduled, from, to).
		Order("scheduled_at ASC")
	return r.findPosts(query)
}

// FindDueScheduled finds scheduled posts whose time has arrived
func (r *GormPostRepository) FindDueScheduled(ctx context.Context, before time.Time, limit int) ([]campaign.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("status = ? AND scheduled_at <= ?", campaign.PostStatusScheduled, before).
		Order("scheduled_at ASC").
		Limit(limit)
	return r.findPosts(query)
}

func (r *GormPostRepository) findPosts(query *gorm.DB) ([]campaign.Post, error) {
	var postModels []models.PostModel
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]campaign.Post, len(postModels))
	for i, model := range postModels {
		post, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		posts[i] = *post
	}
	return posts, nil
}

// Save creates or updates a post
func (r *GormPostRepository) Save(ctx context.Context, post *campaign.Post) error {
	model, err := models.PostModelFromDomain(post)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a post with an optimistic version check
func (r *GormPostRepository) SaveWithLock(ctx context.Context, post *campaign.Post) error {
	model, err := models.PostModelFromDomain(post)
	if err != nil {
		return err
	}
	return lockedUpdate(r.db.WithContext(ctx), model, post.ID, post.Version)
}

// Delete deletes a post
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PostModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForAgency counts posts of an agency matching the filter
func (r *GormPostRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.PostModel{}).Where("agency_id = ?", agencyID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPostRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, PostSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormPostRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR body ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "campaign_id":
			query = query.Where("campaign_id = ?", value)
		}
	}

	return query
}

// Ensure GormPostRepository implements campaign.PostRepository
var _ campaign.PostRepository = (*GormPostRepository)(nil)
