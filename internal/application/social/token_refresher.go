package social

import (
	"context"
	"time"

	"github.com/agencyhub/backend/internal/domain/social"
)

// RefreshedTokens carries new credentials from a platform token refresh
type RefreshedTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// TokenRefresher exchanges an account's refresh token for fresh
// credentials with the platform. Implemented by the infrastructure layer.
type TokenRefresher interface {
	Refresh(ctx context.Context, account *social.Account) (*RefreshedTokens, error)
}
