package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/infrastructure/persistence"
)

func TestJobQueue_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormJobRepository(testDB.DB)
	ctx := context.Background()
	agencyID := uuid.New()
	clientID := uuid.New()
	creatorID := uuid.New()

	newQueuedJob := func(t *testing.T, brief string) *generation.Job {
		t.Helper()
		job, err := generation.NewJob(agencyID, clientID, creatorID, generation.JobTypeSinglePost, brief, 2500)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, job))
		return job
	}

	t.Run("ClaimNextQueued takes the oldest runnable job", func(t *testing.T) {
		first := newQueuedJob(t, "Write a post about our spring sale")
		time.Sleep(10 * time.Millisecond)
		newQueuedJob(t, "Write a post about our summer sale")

		claimed, err := repo.ClaimNextQueued(ctx, "worker-1", time.Now())
		require.NoError(t, err)
		require.NotNil(t, claimed)
		assert.Equal(t, first.ID, claimed.ID)
		assert.Equal(t, generation.JobStatusRunning, claimed.Status)
		assert.Equal(t, "worker-1", claimed.WorkerID)
		assert.Equal(t, 1, claimed.Attempts)
	})

	t.Run("claimed jobs are not handed to a second worker", func(t *testing.T) {
		second, err := repo.ClaimNextQueued(ctx, "worker-2", time.Now())
		require.NoError(t, err)
		require.NotNil(t, second)

		// Both seeded jobs are now running; nothing left to claim
		third, err := repo.ClaimNextQueued(ctx, "worker-3", time.Now())
		require.NoError(t, err)
		assert.Nil(t, third)
	})

	t.Run("jobs with a future run_after are not claimable", func(t *testing.T) {
		job := newQueuedJob(t, "Scheduled for later")
		job.RunAfter = time.Now().Add(time.Hour)
		require.NoError(t, repo.Save(ctx, job))

		claimed, err := repo.ClaimNextQueued(ctx, "worker-1", time.Now())
		require.NoError(t, err)
		assert.Nil(t, claimed)

		// Claimable once the clock passes run_after
		claimed, err = repo.ClaimNextQueued(ctx, "worker-1", time.Now().Add(2*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, claimed)
		assert.Equal(t, job.ID, claimed.ID)
	})

	t.Run("RequeueStale recovers jobs from dead workers", func(t *testing.T) {
		// Everything currently running was updated just now, so an old
		// threshold requeues nothing
		requeued, err := repo.RequeueStale(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(0), requeued)

		// A future threshold treats all running jobs as stale
		requeued, err = repo.RequeueStale(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(3), requeued)

		claimed, err := repo.ClaimNextQueued(ctx, "worker-1", time.Now())
		require.NoError(t, err)
		assert.NotNil(t, claimed)
	})

	t.Run("IsCancelRequested reflects a stored cancel flag", func(t *testing.T) {
		job := newQueuedJob(t, "Cancel me")
		require.NoError(t, job.StartRun("worker-9"))
		require.NoError(t, repo.Save(ctx, job))

		cancelled, err := repo.IsCancelRequested(ctx, job.ID)
		require.NoError(t, err)
		assert.False(t, cancelled)

		// Cancelling a running job only raises the cooperative flag
		require.NoError(t, job.Cancel())
		require.NoError(t, repo.Save(ctx, job))

		cancelled, err = repo.IsCancelRequested(ctx, job.ID)
		require.NoError(t, err)
		assert.True(t, cancelled)
	})
}
