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

// GormInvitationRepository implements InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// FindByID finds an invitation by its ID
func (r *GormInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForAgency finds an invitation scoped to an agency
func (r *GormInvitationRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.Invitation, error) {
	var model models.InvitationModel
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

// FindByTokenHash finds an invitation by its hashed token
func (r *GormInvitationRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*identity.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingByEmail finds a pending invitation for an email within an agency
func (r *GormInvitationRepository) FindPendingByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*identity.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND email = ? AND status = ?", agencyID, strings.ToLower(email), identity.InvitationStatusPending).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForAgency finds invitations of an agency matching the filter
func (r *GormInvitationRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.Invitation, error) {
	var invitationModels []models.InvitationModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvitationModel{}).Where("agency_id = ?", agencyID),
		filter,
	)

	if err := query.Find(&invitationModels).Error; err != nil {
		return nil, err
	}

	invitations := make([]identity.Invitation, len(invitationModels))
	for i, model := range invitationModels {
		invitations[i] = *model.ToDomain()
	}
	return invitations, nil
}

// Save creates or updates an invitation
func (r *GormInvitationRepository) Save(ctx context.Context, invitation *identity.Invitation) error {
	model := models.InvitationModelFromDomain(invitation)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates an invitation with an optimistic version check
func (r *GormInvitationRepository) SaveWithLock(ctx context.Context, invitation *identity.Invitation) error {
	model := models.InvitationModelFromDomain(invitation)
	return lockedUpdate(r.db.WithContext(ctx), model, invitation.ID, invitation.Version)
}

// CountForAgency counts invitations of an agency matching the filter
func (r *GormInvitationRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.InvitationModel{}).Where("agency_id = ?", agencyID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvitationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormInvitationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("email ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "role":
			query = query.Where("role = ?", value)
		}
	}

	return query
}

// Ensure GormInvitationRepository implements InvitationRepository
var _ identity.InvitationRepository = (*GormInvitationRepository)(nil)
