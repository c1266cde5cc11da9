package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/persistence"
)

func TestClientRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormClientRepository(testDB.DB)
	ctx := context.Background()
	agencyID := uuid.New()
	ownerID := uuid.New()

	t.Run("Save and FindByID", func(t *testing.T) {
		c, err := client.NewClient(agencyID, ownerID, "Acme Coffee", "acme-coffee")
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)
		assert.Equal(t, "Acme Coffee", found.Name)
		assert.Equal(t, "acme-coffee", found.Slug)
		assert.Equal(t, agencyID, found.AgencyID)
	})

	t.Run("FindByIDForAgency scopes to the agency", func(t *testing.T) {
		c, err := client.NewClient(agencyID, ownerID, "Scoped Client", "scoped-client")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByIDForAgency(ctx, agencyID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)

		_, err = repo.FindByIDForAgency(ctx, uuid.New(), c.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindBySlug", func(t *testing.T) {
		c, err := client.NewClient(agencyID, ownerID, "Slugged", "slugged-client")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindBySlug(ctx, agencyID, "slugged-client")
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)

		exists, err := repo.ExistsBySlug(ctx, agencyID, "slugged-client")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySlug(ctx, agencyID, "never-created")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("slug is unique per agency", func(t *testing.T) {
		first, err := client.NewClient(agencyID, ownerID, "First", "shared-slug")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, first))

		duplicate, err := client.NewClient(agencyID, ownerID, "Second", "shared-slug")
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, duplicate))

		// The same slug in another agency is fine
		other, err := client.NewClient(uuid.New(), ownerID, "Other Agency", "shared-slug")
		require.NoError(t, err)
		assert.NoError(t, repo.Save(ctx, other))
	})

	t.Run("FindAllForAgency with pagination", func(t *testing.T) {
		pagedAgency := uuid.New()
		for i := 0; i < 7; i++ {
			c, err := client.NewClient(pagedAgency, ownerID, fmt.Sprintf("Paged %d", i), fmt.Sprintf("paged-%d", i))
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, c))
		}

		filter := shared.DefaultFilter()
		filter.Page = 1
		filter.PageSize = 5
		page1, err := repo.FindAllForAgency(ctx, pagedAgency, filter)
		require.NoError(t, err)
		assert.Len(t, page1, 5)

		filter.Page = 2
		page2, err := repo.FindAllForAgency(ctx, pagedAgency, filter)
		require.NoError(t, err)
		assert.Len(t, page2, 2)

		total, err := repo.CountForAgency(ctx, pagedAgency, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
	})

	t.Run("SaveWithLock persists an update and bumps the version", func(t *testing.T) {
		c, err := client.NewClient(agencyID, ownerID, "Versioned", "versioned-client")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)

		require.NoError(t, found.Update("Versioned Updated", "Hospitality", "https://versioned.example.com"))
		require.NoError(t, repo.SaveWithLock(ctx, found))

		reloaded, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Versioned Updated", reloaded.Name)
		assert.Equal(t, found.Version, reloaded.Version)
	})

	t.Run("SaveWithLock rejects a stale write after a concurrent update", func(t *testing.T) {
		c, err := client.NewClient(agencyID, ownerID, "Contested", "contested-client")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		// Two readers load the same version of the row
		first, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)

		require.NoError(t, first.Update("First Writer", "Retail", ""))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.Update("Second Writer", "Finance", ""))
		err = repo.SaveWithLock(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		// The losing write left no trace
		reloaded, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "First Writer", reloaded.Name)
		assert.Equal(t, first.Version, reloaded.Version)
	})
}
