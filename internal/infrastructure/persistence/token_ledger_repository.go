package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository implements billing.LedgerRepository using GORM.
// The agency row serves as the serialization point: Append locks it FOR
// UPDATE so concurrent balance mutations for one agency run one at a time.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append appends one ledger entry under the agency balance lock
func (r *GormLedgerRepository) Append(ctx context.Context, agencyID uuid.UUID, apply func(balanceBefore int64) (*billing.LedgerEntry, error)) (*billing.LedgerEntry, error) {
	var entry *billing.LedgerEntry

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var agency models.AgencyModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&agency, "id = ?", agencyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		balanceBefore, err := latestBalance(tx, agencyID)
		if err != nil {
			return err
		}

		entry, err = apply(balanceBefore)
		if err != nil {
			return err
		}

		model := models.LedgerEntryModelFromDomain(entry)
		return tx.Create(model).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Balance returns the current token balance of an agency
func (r *GormLedgerRepository) Balance(ctx context.Context, agencyID uuid.UUID) (int64, error) {
	return latestBalance(r.db.WithContext(ctx), agencyID)
}

func latestBalance(db *gorm.DB, agencyID uuid.UUID) (int64, error) {
	var last models.LedgerEntryModel
	err := db.
		Where("agency_id = ?", agencyID).
		Order("created_at DESC, id DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.BalanceAfter, nil
}

// FindAllForAgency lists ledger entries of an agency, newest first
func (r *GormLedgerRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]billing.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).Where("agency_id = ?", agencyID),
		filter,
	)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]billing.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// CountForAgency counts ledger entries of an agency
func (r *GormLedgerRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).Where("agency_id = ?", agencyID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLedgerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, LedgerSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormLedgerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "source_type":
			query = query.Where("source_type = ?", value)
		case "source_id":
			query = query.Where("source_id = ?", value)
		}
	}
	return query
}

// Ensure GormLedgerRepository implements billing.LedgerRepository
var _ billing.LedgerRepository = (*GormLedgerRepository)(nil)

// GormWebhookEventRepository implements billing.WebhookEventRepository using GORM
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new GormWebhookEventRepository
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// IsProcessed reports whether an event ID has already been processed
func (r *GormWebhookEventRepository) IsProcessed(ctx context.Context, providerEventID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WebhookEventModel{}).
		Where("provider_event_id = ?", providerEventID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkProcessed records an event ID; returns false if already processed.
// The insert relies on the primary key conflict for idempotency.
func (r *GormWebhookEventRepository) MarkProcessed(ctx context.Context, providerEventID, eventType string) (bool, error) {
	model := models.WebhookEventModel{
		ProviderEventID: providerEventID,
		EventType:       eventType,
		ProcessedAt:     time.Now().UTC(),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormWebhookEventRepository implements billing.WebhookEventRepository
var _ billing.WebhookEventRepository = (*GormWebhookEventRepository)(nil)
