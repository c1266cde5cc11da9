package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// API key scopes for the external bot surface
const (
	APIKeyScopeGenerate = "generate"
	APIKeyScopeJobsRead = "jobs:read"
)

// APIKeyPrefixLength is the number of hex characters exposed as the key prefix
const APIKeyPrefixLength = 8

// APIKey represents an external API key for the bot surface.
// The secret is shown once at creation; only its SHA-256 hash is stored.
type APIKey struct {
	shared.AgencyAggregateRoot
	Name       string
	Prefix     string
	KeyHash    string
	Scopes     []string
	LastUsedAt *time.Time
	RevokedAt  *time.Time
}

// NewAPIKey creates a new API key and returns the raw secret
func NewAPIKey(agencyID, createdBy uuid.UUID, name string, scopes []string) (*APIKey, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", shared.NewDomainError("INVALID_NAME", "API key name cannot be empty")
	}
	if len(name) > 200 {
		return nil, "", shared.NewDomainError("INVALID_NAME", "API key name cannot exceed 200 characters")
	}
	if len(scopes) == 0 {
		return nil, "", shared.NewDomainError("INVALID_SCOPES", "API key needs at least one scope")
	}
	for _, scope := range scopes {
		if err := validateAPIKeyScope(scope); err != nil {
			return nil, "", err
		}
	}

	secret, err := generateAPIKeySecret()
	if err != nil {
		return nil, "", shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate API key")
	}

	key := &APIKey{
		AgencyAggregateRoot: shared.NewAgencyAggregateRootWithCreator(agencyID, createdBy),
		Name:                strings.TrimSpace(name),
		Prefix:              secret[:APIKeyPrefixLength],
		KeyHash:             HashAPIKey(secret),
		Scopes:              scopes,
	}

	return key, secret, nil
}

// HasScope checks whether the key grants a scope
func (k *APIKey) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Revoke revokes the API key
func (k *APIKey) Revoke() error {
	if k.RevokedAt != nil {
		return shared.NewDomainError("ALREADY_REVOKED", "API key is already revoked")
	}

	now := time.Now()
	k.RevokedAt = &now
	k.UpdatedAt = now
	k.IncrementVersion()

	return nil
}

// IsRevoked returns true if the key has been revoked
func (k *APIKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// Touch records that the key was just used
func (k *APIKey) Touch() {
	now := time.Now()
	k.LastUsedAt = &now
}

// HashAPIKey returns the hex SHA-256 digest of a raw API key secret
func HashAPIKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func validateAPIKeyScope(scope string) error {
	switch scope {
	case APIKeyScopeGenerate, APIKeyScopeJobsRead:
		return nil
	default:
		return shared.NewDomainError("INVALID_SCOPES", "Unknown API key scope: "+scope)
	}
}

func generateAPIKeySecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
