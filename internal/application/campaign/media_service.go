package campaign

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ObjectStorage defines the interface for object storage operations.
// It is implemented by the infrastructure layer (S3 or any compatible store).
type ObjectStorage interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// Allowed media content types for post attachments
var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

// MediaServiceConfig holds configuration for the media service
type MediaServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
	MaxMediaPerPost   int
}

// DefaultMediaServiceConfig returns the default configuration
func DefaultMediaServiceConfig() MediaServiceConfig {
	return MediaServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
		MaxMediaPerPost:   10,
	}
}

// UploadTicketDTO is the response for a requested media upload
type UploadTicketDTO struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// MediaURLDTO pairs a storage key with a presigned download URL
type MediaURLDTO struct {
	StorageKey string    `json:"storage_key"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// MediaService handles presigned media uploads for posts. Clients upload
// directly to object storage; the API only hands out URLs and records keys.
type MediaService struct {
	storage ObjectStorage
	config  MediaServiceConfig
}

// NewMediaService creates a new MediaService
func NewMediaService(storage ObjectStorage, config MediaServiceConfig) *MediaService {
	return &MediaService{storage: storage, config: config}
}

// RequestUpload issues a presigned upload URL for a new media object.
// The storage key is generated server-side so clients cannot choose paths.
func (s *MediaService) RequestUpload(ctx context.Context, agencyID uuid.UUID, contentType string) (*UploadTicketDTO, error) {
	ext, ok := allowedMediaTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", fmt.Sprintf("Content type %q is not allowed", contentType))
	}

	storageKey := fmt.Sprintf("agencies/%s/media/%s%s", agencyID, uuid.New(), ext)

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return &UploadTicketDTO{
		StorageKey: storageKey,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload verifies the object landed in storage before a post may
// reference its key.
func (s *MediaService) ConfirmUpload(ctx context.Context, agencyID uuid.UUID, storageKey string) error {
	if err := s.ensureOwnedKey(agencyID, storageKey); err != nil {
		return err
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return fmt.Errorf("failed to check object: %w", err)
	}
	if !exists {
		return shared.NewDomainError("MEDIA_NOT_UPLOADED", "Media object was not uploaded")
	}
	return nil
}

// DownloadURLs resolves presigned download URLs for a post's media keys
func (s *MediaService) DownloadURLs(ctx context.Context, agencyID uuid.UUID, storageKeys []string) ([]MediaURLDTO, error) {
	urls := make([]MediaURLDTO, 0, len(storageKeys))
	for _, key := range storageKeys {
		if err := s.ensureOwnedKey(agencyID, key); err != nil {
			return nil, err
		}

		url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.config.DownloadURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("failed to generate download URL: %w", err)
		}
		urls = append(urls, MediaURLDTO{StorageKey: key, URL: url, ExpiresAt: expiresAt})
	}
	return urls, nil
}

// DeleteMedia removes a media object owned by the agency
func (s *MediaService) DeleteMedia(ctx context.Context, agencyID uuid.UUID, storageKey string) error {
	if err := s.ensureOwnedKey(agencyID, storageKey); err != nil {
		return err
	}
	return s.storage.DeleteObject(ctx, storageKey)
}

// ensureOwnedKey rejects keys outside the agency's media prefix
func (s *MediaService) ensureOwnedKey(agencyID uuid.UUID, storageKey string) error {
	prefix := fmt.Sprintf("agencies/%s/media/", agencyID)
	if !strings.HasPrefix(storageKey, prefix) {
		return shared.ErrForbidden
	}
	return nil
}
