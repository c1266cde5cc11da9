package social

import (
	"strings"
	"time"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountStatus represents the status of a social account connection
type AccountStatus string

const (
	AccountStatusConnected AccountStatus = "connected"
	AccountStatusExpired   AccountStatus = "expired" // Access token no longer valid
	AccountStatusRevoked   AccountStatus = "revoked" // Disconnected by the agency
)

// Account represents a client's connected social media account.
// Access and refresh tokens are encrypted by the persistence layer.
type Account struct {
	shared.AgencyAggregateRoot
	ClientID       uuid.UUID
	Platform       Platform
	Handle         string
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt *time.Time
	Status         AccountStatus
}

// NewAccount connects a new social account for a client
func NewAccount(agencyID, clientID, createdBy uuid.UUID, platform Platform, handle, accessToken, refreshToken string, tokenExpiresAt *time.Time) (*Account, error) {
	if err := ValidatePlatform(platform); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if err := validateHandle(handle); err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Access token cannot be empty")
	}

	account := &Account{
		AgencyAggregateRoot: shared.NewAgencyAggregateRootWithCreator(agencyID, createdBy),
		ClientID:            clientID,
		Platform:            platform,
		Handle:              normalizeHandle(handle),
		AccessToken:         accessToken,
		RefreshToken:        refreshToken,
		TokenExpiresAt:      tokenExpiresAt,
		Status:              AccountStatusConnected,
	}

	return account, nil
}

// UpdateTokens stores refreshed credentials and restores connected status
func (a *Account) UpdateTokens(accessToken, refreshToken string, expiresAt *time.Time) error {
	if a.Status == AccountStatusRevoked {
		return shared.NewDomainError("ACCOUNT_REVOKED", "Cannot refresh a revoked account")
	}
	if accessToken == "" {
		return shared.NewDomainError("INVALID_TOKEN", "Access token cannot be empty")
	}

	a.AccessToken = accessToken
	if refreshToken != "" {
		a.RefreshToken = refreshToken
	}
	a.TokenExpiresAt = expiresAt
	a.Status = AccountStatusConnected
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// MarkExpired marks the account's token as expired
func (a *Account) MarkExpired() error {
	if a.Status == AccountStatusRevoked {
		return shared.NewDomainError("ACCOUNT_REVOKED", "Account is revoked")
	}

	a.Status = AccountStatusExpired
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Revoke disconnects the account
func (a *Account) Revoke() error {
	if a.Status == AccountStatusRevoked {
		return shared.NewDomainError("ALREADY_REVOKED", "Account is already revoked")
	}

	a.Status = AccountStatusRevoked
	a.AccessToken = ""
	a.RefreshToken = ""
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// IsUsable returns true if the account can be published to
func (a *Account) IsUsable() bool {
	if a.Status != AccountStatusConnected {
		return false
	}
	if a.TokenExpiresAt != nil && time.Now().After(*a.TokenExpiresAt) {
		return false
	}
	return true
}

func validateHandle(handle string) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return shared.NewDomainError("INVALID_HANDLE", "Handle cannot be empty")
	}
	if len(handle) > 200 {
		return shared.NewDomainError("INVALID_HANDLE", "Handle cannot exceed 200 characters")
	}
	return nil
}

func normalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
