package persistence

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agencyhub/backend/internal/domain/shared"
)

// lockedUpdate performs a full-row update guarded by the version the
// caller loaded. The aggregate increments its version on every mutation,
// so the predicate matches version-1. Zero rows affected means another
// writer committed first and the caller's copy is stale.
func lockedUpdate(db *gorm.DB, model any, id uuid.UUID, version int) error {
	result := db.Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
