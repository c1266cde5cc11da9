package campaign

import (
	"strings"
	"testing"
	"time"

	"github.com/agencyhub/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost(t *testing.T, platforms ...social.Platform) *Post {
	t.Helper()
	if len(platforms) == 0 {
		platforms = []social.Platform{social.PlatformTwitter}
	}
	p, err := NewPost(uuid.New(), uuid.New(), uuid.New(), "Launch teaser", "Something big is coming.", platforms)
	require.NoError(t, err)
	return p
}

func TestNewPost(t *testing.T) {
	t.Run("creates draft post", func(t *testing.T) {
		p := newTestPost(t)

		assert.Equal(t, PostStatusDraft, p.Status)
		assert.True(t, p.TargetsPlatform(social.PlatformTwitter))
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("dedupes platforms", func(t *testing.T) {
		p := newTestPost(t, social.PlatformTwitter, social.PlatformTwitter, social.PlatformLinkedIn)

		assert.Len(t, p.Platforms, 2)
	})

	t.Run("fails without platforms", func(t *testing.T) {
		p, err := NewPost(uuid.New(), uuid.New(), uuid.New(), "Title", "Body", nil)

		assert.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("fails with unknown platform", func(t *testing.T) {
		p, err := NewPost(uuid.New(), uuid.New(), uuid.New(), "Title", "Body", []social.Platform{"myspace"})

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestPost_Schedule(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	end := time.Now().AddDate(0, 1, 0)
	camp, err := NewCampaign(uuid.New(), uuid.New(), uuid.New(), "Spring", decimal.Zero, start, end)
	require.NoError(t, err)

	t.Run("schedules within campaign window", func(t *testing.T) {
		p := newTestPost(t)
		at := time.Now().Add(48 * time.Hour)

		require.NoError(t, p.Schedule(at, camp))
		assert.Equal(t, PostStatusScheduled, p.Status)
		require.NotNil(t, p.ScheduledAt)
		assert.True(t, p.ScheduledAt.Equal(at))
	})

	t.Run("rejects past time", func(t *testing.T) {
		p := newTestPost(t)

		err := p.Schedule(time.Now().Add(-time.Minute), camp)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be in the future")
	})

	t.Run("rejects time outside campaign window", func(t *testing.T) {
		p := newTestPost(t)

		err := p.Schedule(end.AddDate(0, 1, 0), camp)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "outside the campaign window")
	})

	t.Run("rejects content violating platform rules", func(t *testing.T) {
		p := newTestPost(t)
		longBody := strings.Repeat("x", 300)
		require.NoError(t, p.UpdateContent("Title", longBody, nil, nil, []social.Platform{social.PlatformTwitter}))

		err := p.Schedule(time.Now().Add(48*time.Hour), camp)

		assert.Error(t, err)
	})

	t.Run("unschedule returns to draft", func(t *testing.T) {
		p := newTestPost(t)
		require.NoError(t, p.Schedule(time.Now().Add(48*time.Hour), camp))

		require.NoError(t, p.Unschedule())
		assert.Equal(t, PostStatusDraft, p.Status)
		assert.Nil(t, p.ScheduledAt)
	})
}

func TestPost_PublishLifecycle(t *testing.T) {
	t.Run("publishing to published", func(t *testing.T) {
		p := newTestPost(t)

		require.NoError(t, p.MarkPublishing())
		require.NoError(t, p.MarkPublished(""))
		assert.Equal(t, PostStatusPublished, p.Status)
		assert.NotNil(t, p.PublishedAt)
	})

	t.Run("partial failure keeps published status with details", func(t *testing.T) {
		p := newTestPost(t)
		_ = p.MarkPublishing()

		require.NoError(t, p.MarkPublished("instagram @acme: token expired"))
		assert.Equal(t, PostStatusPublished, p.Status)
		assert.NotEmpty(t, p.FailureReason)
	})

	t.Run("all failed marks post failed and retry returns to draft", func(t *testing.T) {
		p := newTestPost(t)
		_ = p.MarkPublishing()

		require.NoError(t, p.MarkFailed("all accounts failed"))
		assert.Equal(t, PostStatusFailed, p.Status)

		require.NoError(t, p.RetryFromFailed())
		assert.Equal(t, PostStatusDraft, p.Status)
		assert.Empty(t, p.FailureReason)
	})

	t.Run("cannot edit a published post", func(t *testing.T) {
		p := newTestPost(t)
		_ = p.MarkPublishing()
		_ = p.MarkPublished("")

		err := p.UpdateContent("New", "Body", nil, nil, []social.Platform{social.PlatformTwitter})

		assert.Error(t, err)
	})
}
