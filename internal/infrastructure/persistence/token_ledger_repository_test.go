package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agencyhub/backend/internal/domain/billing"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newMockLedgerRepository(t *testing.T) (*GormLedgerRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormLedgerRepository(gormDB), mock, mockDB
}

func TestGormLedgerRepository_Balance(t *testing.T) {
	t.Run("returns zero for an agency with no entries", func(t *testing.T) {
		repo, mock, mockDB := newMockLedgerRepository(t)
		defer mockDB.Close()

		agencyID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "token_ledger" WHERE agency_id = \$1 ORDER BY created_at DESC, id DESC.*LIMIT .*`).
			WithArgs(agencyID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		balance, err := repo.Balance(context.Background(), agencyID)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the balance of the newest entry", func(t *testing.T) {
		repo, mock, mockDB := newMockLedgerRepository(t)
		defer mockDB.Close()

		agencyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "agency_id", "kind", "amount", "balance_after"}).
			AddRow(uuid.New(), agencyID, "consume", -200, 4800)

		mock.ExpectQuery(`SELECT \* FROM "token_ledger" WHERE agency_id = \$1 ORDER BY created_at DESC, id DESC.*LIMIT .*`).
			WithArgs(agencyID, 1).
			WillReturnRows(rows)

		balance, err := repo.Balance(context.Background(), agencyID)

		assert.NoError(t, err)
		assert.Equal(t, int64(4800), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLedgerRepository_Append(t *testing.T) {
	t.Run("appends an entry under the agency lock", func(t *testing.T) {
		repo, mock, mockDB := newMockLedgerRepository(t)
		defer mockDB.Close()

		agencyID := uuid.New()

		agencyRows := sqlmock.NewRows([]string{"id", "name", "slug", "status"}).
			AddRow(agencyID, "Acme Agency", "acme", "active")

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "agencies" WHERE id = \$1.*LIMIT .* FOR UPDATE`).
			WithArgs(agencyID, 1).
			WillReturnRows(agencyRows)
		mock.ExpectQuery(`SELECT \* FROM "token_ledger" WHERE agency_id = \$1 ORDER BY created_at DESC, id DESC.*LIMIT .*`).
			WithArgs(agencyID, 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectExec(`INSERT INTO "token_ledger"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		entry, err := repo.Append(context.Background(), agencyID, func(balanceBefore int64) (*billing.LedgerEntry, error) {
			assert.Equal(t, int64(0), balanceBefore)
			return billing.NewLedgerEntry(agencyID, billing.LedgerKindGrant, 5000, balanceBefore, "subscription", nil, "{}")
		})

		assert.NoError(t, err)
		assert.NotNil(t, entry)
		assert.Equal(t, int64(5000), entry.BalanceAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when apply rejects the mutation", func(t *testing.T) {
		repo, mock, mockDB := newMockLedgerRepository(t)
		defer mockDB.Close()

		agencyID := uuid.New()

		agencyRows := sqlmock.NewRows([]string{"id", "name", "slug", "status"}).
			AddRow(agencyID, "Acme Agency", "acme", "active")
		ledgerRows := sqlmock.NewRows([]string{"id", "agency_id", "kind", "amount", "balance_after"}).
			AddRow(uuid.New(), agencyID, "grant", 100, 100)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "agencies" WHERE id = \$1.*LIMIT .* FOR UPDATE`).
			WithArgs(agencyID, 1).
			WillReturnRows(agencyRows)
		mock.ExpectQuery(`SELECT \* FROM "token_ledger" WHERE agency_id = \$1 ORDER BY created_at DESC, id DESC.*LIMIT .*`).
			WithArgs(agencyID, 1).
			WillReturnRows(ledgerRows)
		mock.ExpectRollback()

		entry, err := repo.Append(context.Background(), agencyID, func(balanceBefore int64) (*billing.LedgerEntry, error) {
			return billing.NewLedgerEntry(agencyID, billing.LedgerKindReserve, 500, balanceBefore, "generation_job", nil, "{}")
		})

		assert.Error(t, err)
		assert.Nil(t, entry)
		assert.ErrorIs(t, err, shared.ErrInsufficientTokens)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func newMockWebhookEventRepository(t *testing.T) (*GormWebhookEventRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormWebhookEventRepository(gormDB), mock, mockDB
}

func TestGormWebhookEventRepository_MarkProcessed(t *testing.T) {
	t.Run("returns true for a fresh event", func(t *testing.T) {
		repo, mock, mockDB := newMockWebhookEventRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "billing_webhook_events" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		fresh, err := repo.MarkProcessed(context.Background(), "evt_123", "invoice.paid")

		assert.NoError(t, err)
		assert.True(t, fresh)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false for a duplicate event", func(t *testing.T) {
		repo, mock, mockDB := newMockWebhookEventRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "billing_webhook_events" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		fresh, err := repo.MarkProcessed(context.Background(), "evt_123", "invoice.paid")

		assert.NoError(t, err)
		assert.False(t, fresh)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWebhookEventRepository_IsProcessed(t *testing.T) {
	t.Run("reports a recorded event as processed", func(t *testing.T) {
		repo, mock, mockDB := newMockWebhookEventRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "billing_webhook_events" WHERE provider_event_id = \$1`).
			WithArgs("evt_123").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		processed, err := repo.IsProcessed(context.Background(), "evt_123")

		assert.NoError(t, err)
		assert.True(t, processed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports an unknown event as unprocessed", func(t *testing.T) {
		repo, mock, mockDB := newMockWebhookEventRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "billing_webhook_events" WHERE provider_event_id = \$1`).
			WithArgs("evt_unknown").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		processed, err := repo.IsProcessed(context.Background(), "evt_unknown")

		assert.NoError(t, err)
		assert.False(t, processed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLedgerRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements LedgerRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockLedgerRepository(t)
		defer mockDB.Close()

		var _ billing.LedgerRepository = repo
	})
}
