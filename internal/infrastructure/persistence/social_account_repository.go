package persistence

import (
	"context"
	"errors"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
	"github.com/agencyhub/backend/internal/infrastructure/auth"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSocialAccountRepository implements social.AccountRepository using GORM.
// OAuth tokens are encrypted with AES-GCM before they touch the database.
type GormSocialAccountRepository struct {
	db     *gorm.DB
	cipher *auth.TokenCipher
}

// NewGormSocialAccountRepository creates a new GormSocialAccountRepository
func NewGormSocialAccountRepository(db *gorm.DB, cipher *auth.TokenCipher) *GormSocialAccountRepository {
	return &GormSocialAccountRepository{db: db, cipher: cipher}
}

// FindByID finds an account by its ID
func (r *GormSocialAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

// FindByIDForAgency finds an account scoped to an agency
func (r *GormSocialAccountRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*social.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND id = ?", agencyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

// FindByClient finds accounts of a client
func (r *GormSocialAccountRepository) FindByClient(ctx context.Context, agencyID, clientID uuid.UUID, filter shared.Filter) ([]social.Account, error) {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("agency_id = ? AND client_id = ?", agencyID, clientID).
		Order("created_at ASC")
	return r.findAccounts(query)
}

// FindByClientAndPlatform finds a client's account for a platform
func (r *GormSocialAccountRepository) FindByClientAndPlatform(ctx context.Context, agencyID, clientID uuid.UUID, platform social.Platform) (*social.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND client_id = ? AND platform = ?", agencyID, clientID, platform).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

// FindAllForAgency finds accounts of an agency matching the filter
func (r *GormSocialAccountRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]social.Account, error) {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).Where("agency_id = ?", agencyID)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	for key, value := range filter.Filters {
		switch key {
		case "platform":
			query = query.Where("platform = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}
	query = query.Order("created_at ASC")
	return r.findAccounts(query)
}

func (r *GormSocialAccountRepository) findAccounts(query *gorm.DB) ([]social.Account, error) {
	var accountModels []models.AccountModel
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]social.Account, len(accountModels))
	for i, model := range accountModels {
		account, err := r.toDomain(&model)
		if err != nil {
			return nil, err
		}
		accounts[i] = *account
	}
	return accounts, nil
}

// Save creates or updates an account, encrypting tokens at rest
func (r *GormSocialAccountRepository) Save(ctx context.Context, account *social.Account) error {
	accessEnc, err := r.cipher.Encrypt(account.AccessToken)
	if err != nil {
		return err
	}
	refreshEnc, err := r.cipher.Encrypt(account.RefreshToken)
	if err != nil {
		return err
	}

	model := models.AccountModelFromDomain(account)
	model.AccessTokenEnc = accessEnc
	model.RefreshTokenEnc = refreshEnc
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates an account with an optimistic version check,
// encrypting tokens at rest
func (r *GormSocialAccountRepository) SaveWithLock(ctx context.Context, account *social.Account) error {
	accessEnc, err := r.cipher.Encrypt(account.AccessToken)
	if err != nil {
		return err
	}
	refreshEnc, err := r.cipher.Encrypt(account.RefreshToken)
	if err != nil {
		return err
	}

	model := models.AccountModelFromDomain(account)
	model.AccessTokenEnc = accessEnc
	model.RefreshTokenEnc = refreshEnc
	return lockedUpdate(r.db.WithContext(ctx), model, account.ID, account.Version)
}

// Delete deletes an account
func (r *GormSocialAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForAgency counts accounts of an agency matching the filter
func (r *GormSocialAccountRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("agency_id = ?", agencyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSocialAccountRepository) toDomain(model *models.AccountModel) (*social.Account, error) {
	account := model.ToDomain()

	access, err := r.cipher.Decrypt(model.AccessTokenEnc)
	if err != nil {
		return nil, err
	}
	refresh, err := r.cipher.Decrypt(model.RefreshTokenEnc)
	if err != nil {
		return nil, err
	}
	account.AccessToken = access
	account.RefreshToken = refresh
	return account, nil
}

// Ensure GormSocialAccountRepository implements social.AccountRepository
var _ social.AccountRepository = (*GormSocialAccountRepository)(nil)
