package campaign

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agencyhub/backend/internal/domain/shared"
)

func TestMediaService_RequestUpload(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	storage := new(MockObjectStorage)
	svc := NewMediaService(storage, DefaultMediaServiceConfig())

	t.Run("issues a presigned URL under the agency prefix", func(t *testing.T) {
		expires := time.Now().Add(15 * time.Minute)
		storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/png", 15*time.Minute).
			Return("https://bucket.example/upload", expires, nil).Once()

		ticket, err := svc.RequestUpload(ctx, agencyID, "image/png")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ticket.StorageKey, fmt.Sprintf("agencies/%s/media/", agencyID)))
		assert.True(t, strings.HasSuffix(ticket.StorageKey, ".png"))
		assert.Equal(t, "https://bucket.example/upload", ticket.UploadURL)
	})

	t.Run("rejects disallowed content types", func(t *testing.T) {
		_, err := svc.RequestUpload(ctx, agencyID, "application/x-msdownload")
		assert.Error(t, err)
	})
}

func TestMediaService_ConfirmUpload(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	key := fmt.Sprintf("agencies/%s/media/%s.jpg", agencyID, uuid.New())

	t.Run("accepts an uploaded object", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := NewMediaService(storage, DefaultMediaServiceConfig())
		storage.On("ObjectExists", ctx, key).Return(true, nil)

		assert.NoError(t, svc.ConfirmUpload(ctx, agencyID, key))
	})

	t.Run("rejects objects that never landed", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := NewMediaService(storage, DefaultMediaServiceConfig())
		storage.On("ObjectExists", ctx, key).Return(false, nil)

		assert.Error(t, svc.ConfirmUpload(ctx, agencyID, key))
	})

	t.Run("rejects keys outside the agency prefix", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := NewMediaService(storage, DefaultMediaServiceConfig())

		otherKey := fmt.Sprintf("agencies/%s/media/steal.jpg", uuid.New())
		err := svc.ConfirmUpload(ctx, agencyID, otherKey)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		storage.AssertNotCalled(t, "ObjectExists")
	})
}
