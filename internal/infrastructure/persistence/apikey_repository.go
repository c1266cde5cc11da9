package persistence

import (
	"context"
	"errors"

	"github.com/agencyhub/backend/internal/domain/identity"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAPIKeyRepository implements APIKeyRepository using GORM
type GormAPIKeyRepository struct {
	db *gorm.DB
}

// NewGormAPIKeyRepository creates a new GormAPIKeyRepository
func NewGormAPIKeyRepository(db *gorm.DB) *GormAPIKeyRepository {
	return &GormAPIKeyRepository{db: db}
}

// FindByID finds an API key by its ID
func (r *GormAPIKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.APIKey, error) {
	var model models.APIKeyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDForAgency finds an API key scoped to an agency
func (r *GormAPIKeyRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.APIKey, error) {
	var model models.APIKeyModel
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

// FindByKeyHash finds an API key by its hashed secret
func (r *GormAPIKeyRepository) FindByKeyHash(ctx context.Context, keyHash string) (*identity.APIKey, error) {
	var model models.APIKeyModel
	if err := r.db.WithContext(ctx).
		Where("key_hash = ?", keyHash).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForAgency finds API keys of an agency
func (r *GormAPIKeyRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.APIKey, error) {
	var keyModels []models.APIKeyModel
	query := r.db.WithContext(ctx).Model(&models.APIKeyModel{}).Where("agency_id = ?", agencyID)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&keyModels).Error; err != nil {
		return nil, err
	}

	keys := make([]identity.APIKey, len(keyModels))
	for i, model := range keyModels {
		key, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		keys[i] = *key
	}
	return keys, nil
}

// Save creates or updates an API key
func (r *GormAPIKeyRepository) Save(ctx context.Context, key *identity.APIKey) error {
	model, err := models.APIKeyModelFromDomain(key)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates an API key with an optimistic version check
func (r *GormAPIKeyRepository) SaveWithLock(ctx context.Context, key *identity.APIKey) error {
	model, err := models.APIKeyModelFromDomain(key)
	if err != nil {
		return err
	}
	return lockedUpdate(r.db.WithContext(ctx), model, key.ID, key.Version)
}

// CountForAgency counts API keys of an agency
func (r *GormAPIKeyRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.APIKeyModel{}).
		Where("agency_id = ?", agencyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormAPIKeyRepository implements APIKeyRepository
var _ identity.APIKeyRepository = (*GormAPIKeyRepository)(nil)
