package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

func newMockJobRepository(t *testing.T) (*GormJobRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormJobRepository(gormDB), mock, mockDB
}

func TestGormJobRepository_ClaimNextQueued(t *testing.T) {
	t.Run("returns nil when no job is claimable", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "generation_jobs" WHERE status = \$1 AND run_after <= \$2 ORDER BY created_at ASC LIMIT .* FOR UPDATE SKIP LOCKED`).
			WithArgs(generation.JobStatusQueued, now, 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectRollback()

		job, err := repo.ClaimNextQueued(context.Background(), "worker-1", now)

		assert.NoError(t, err)
		assert.Nil(t, job)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("claims the oldest queued job and marks it running", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		jobID := uuid.New()
		agencyID := uuid.New()
		clientID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "agency_id", "client_id", "type", "brief", "status", "attempts", "max_attempts", "run_after"}).
			AddRow(jobID, agencyID, clientID, "single_post", "Launch teaser", "queued", 0, 3, now.Add(-time.Minute))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "generation_jobs" WHERE status = \$1 AND run_after <= \$2 ORDER BY created_at ASC LIMIT .* FOR UPDATE SKIP LOCKED`).
			WithArgs(generation.JobStatusQueued, now, 1).
			WillReturnRows(rows)
		mock.ExpectExec(`UPDATE "generation_jobs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		mock.ExpectQuery(`SELECT \* FROM "generation_steps" WHERE job_id = \$1 ORDER BY ordinal ASC`).
			WithArgs(jobID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "agency_id", "job_id", "ordinal", "kind", "status"}))

		job, err := repo.ClaimNextQueued(context.Background(), "worker-1", now)

		assert.NoError(t, err)
		assert.NotNil(t, job)
		assert.Equal(t, generation.JobStatusRunning, job.Status)
		assert.Equal(t, "worker-1", job.WorkerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_RequeueStale(t *testing.T) {
	t.Run("requeues running jobs past the threshold", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		olderThan := time.Now().Add(-15 * time.Minute)

		mock.ExpectExec(`UPDATE "generation_jobs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		requeued, err := repo.RequeueStale(context.Background(), olderThan)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), requeued)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero when nothing is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "generation_jobs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		requeued, err := repo.RequeueStale(context.Background(), time.Now())

		assert.NoError(t, err)
		assert.Equal(t, int64(0), requeued)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_SaveWithLock(t *testing.T) {
	runningJob := func(t *testing.T) *generation.Job {
		job, err := generation.NewJob(uuid.New(), uuid.New(), uuid.New(),
			generation.JobTypeSinglePost, "Launch teaser", 7500)
		require.NoError(t, err)
		require.NoError(t, job.StartRun("worker-1"))
		job.Steps = nil
		return job
	}

	t.Run("persists a transition when the stored version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		job := runningJob(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "generation_jobs" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveWithLock(context.Background(), job)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a stale transition racing another writer", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		job := runningJob(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "generation_jobs" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), job)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_IsCancelRequested(t *testing.T) {
	t.Run("reads the cancellation flag", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		jobID := uuid.New()

		mock.ExpectQuery(`SELECT "cancel_requested" FROM "generation_jobs" WHERE id = \$1`).
			WithArgs(jobID).
			WillReturnRows(sqlmock.NewRows([]string{"cancel_requested"}).AddRow(true))

		cancelled, err := repo.IsCancelRequested(context.Background(), jobID)

		assert.NoError(t, err)
		assert.True(t, cancelled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_CountByStatus(t *testing.T) {
	t.Run("counts jobs in a status", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "generation_jobs" WHERE status = \$1`).
			WithArgs(generation.JobStatusQueued).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountByStatus(context.Background(), generation.JobStatusQueued)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements JobRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		var _ generation.JobRepository = repo
	})
}
