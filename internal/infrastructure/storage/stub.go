// Package storage provides object storage implementations for post media.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
)

// StubMediaStorage is an in-memory placeholder for object storage.
// Upload confirmation only succeeds for keys marked via MarkUploaded,
// which keeps the confirm flow honest in tests.
type StubMediaStorage struct {
	// BaseURL is the base URL for generated upload/download URLs
	BaseURL string

	mu       sync.RWMutex
	uploaded map[string]bool
}

// NewStubMediaStorage creates a new StubMediaStorage
func NewStubMediaStorage() *StubMediaStorage {
	return &StubMediaStorage{
		BaseURL:  "https://storage.example.com",
		uploaded: make(map[string]bool),
	}
}

// Ensure StubMediaStorage implements ObjectStorage
var _ campaignapp.ObjectStorage = (*StubMediaStorage)(nil)

// MarkUploaded records a key as present, simulating a completed client upload
func (s *StubMediaStorage) MarkUploaded(storageKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded[storageKey] = true
}

// GenerateUploadURL generates a stub presigned upload URL
func (s *StubMediaStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL generates a stub presigned download URL
func (s *StubMediaStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// DeleteObject removes a key from the stub store
func (s *StubMediaStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploaded, storageKey)
	return nil
}

// ObjectExists reports whether MarkUploaded was called for the key
func (s *StubMediaStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploaded[storageKey], nil
}
