package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
	"github.com/agencyhub/backend/internal/infrastructure/config"
)

// Per-platform OAuth token endpoints
var tokenEndpoints = map[social.Platform]string{
	social.PlatformTwitter:   "https://api.twitter.com/2/oauth2/token",
	social.PlatformInstagram: "https://graph.instagram.com/refresh_access_token",
	social.PlatformLinkedIn:  "https://www.linkedin.com/oauth/v2/accessToken",
	social.PlatformFacebook:  "https://graph.facebook.com/v19.0/oauth/access_token",
}

// OAuthTokenRefresher implements the refresh-token grant against each
// platform's token endpoint.
type OAuthTokenRefresher struct {
	config config.SocialConfig
	client *http.Client
}

// NewOAuthTokenRefresher creates a refresher from platform OAuth settings
func NewOAuthTokenRefresher(cfg config.SocialConfig, timeout time.Duration) *OAuthTokenRefresher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OAuthTokenRefresher{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Refresh exchanges the account's refresh token for fresh credentials
func (r *OAuthTokenRefresher) Refresh(ctx context.Context, account *social.Account) (*socialapp.RefreshedTokens, error) {
	if account.RefreshToken == "" {
		return nil, shared.NewDomainError("NO_REFRESH_TOKEN", "Account has no refresh token")
	}

	endpoint, ok := tokenEndpoints[account.Platform]
	if !ok {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unsupported platform: "+string(account.Platform))
	}

	creds := r.credentials(account.Platform)

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", account.RefreshToken)
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: build refresh request: %w", account.Platform, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: refresh request failed: %w", account.Platform, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read refresh response: %w", account.Platform, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: refresh rejected with status %d: %s", account.Platform, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("%s: decode refresh response: %w", account.Platform, err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("%s: refresh response has no access token", account.Platform)
	}

	refreshed := &socialapp.RefreshedTokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if tokens.ExpiresIn > 0 {
		expiresAt := time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
		refreshed.ExpiresAt = &expiresAt
	}
	return refreshed, nil
}

func (r *OAuthTokenRefresher) credentials(platform social.Platform) config.SocialOAuthConfig {
	switch platform {
	case social.PlatformTwitter:
		return r.config.Twitter
	case social.PlatformInstagram:
		return r.config.Instagram
	case social.PlatformLinkedIn:
		return r.config.LinkedIn
	case social.PlatformFacebook:
		return r.config.Facebook
	default:
		return config.SocialOAuthConfig{}
	}
}

var _ socialapp.TokenRefresher = (*OAuthTokenRefresher)(nil)
