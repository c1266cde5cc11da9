package persistence

import (
	"context"

	"github.com/agencyhub/backend/internal/domain/audit"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Repository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Save appends an audit log entry
func (r *GormAuditLogRepository) Save(ctx context.Context, log *audit.Log) error {
	model := models.AuditLogModelFromDomain(log)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAllForAgency lists audit log entries of an agency, newest first
func (r *GormAuditLogRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]audit.Log, error) {
	var logModels []models.AuditLogModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AuditLogModel{}).Where("agency_id = ?", agencyID),
		filter,
	)

	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]audit.Log, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

// CountForAgency counts audit log entries of an agency
func (r *GormAuditLogRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.AuditLogModel{}).Where("agency_id = ?", agencyID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, AuditLogSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormAuditLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		case "action":
			query = query.Where("action = ?", value)
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		case "entity_id":
			query = query.Where("entity_id = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at <= ?", value)
		}
	}
	return query
}

// Ensure GormAuditLogRepository implements audit.Repository
var _ audit.Repository = (*GormAuditLogRepository)(nil)
