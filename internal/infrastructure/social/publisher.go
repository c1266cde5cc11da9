// Package social implements platform publishing adapters.
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/domain/social"
)

// publishError is returned for non-2xx platform responses
type publishError struct {
	Platform   social.Platform
	StatusCode int
	Body       string
}

func (e *publishError) Error() string {
	return fmt.Sprintf("%s publish failed with status %d: %s", e.Platform, e.StatusCode, e.Body)
}

// IsTokenRejected reports whether the platform refused the account's
// credentials. Callers mark the account expired on this condition.
func IsTokenRejected(err error) bool {
	var pe *publishError
	return errors.As(err, &pe) && (pe.StatusCode == http.StatusUnauthorized || pe.StatusCode == http.StatusForbidden)
}

// httpPublisher is the shared transport for all platform adapters
type httpPublisher struct {
	platform social.Platform
	baseURL  string
	client   *http.Client
}

func newHTTPPublisher(platform social.Platform, baseURL string, timeout time.Duration) httpPublisher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return httpPublisher{
		platform: platform,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
	}
}

// Platform returns the platform this publisher serves
func (p httpPublisher) Platform() social.Platform {
	return p.platform
}

// postJSON sends an authenticated JSON request and decodes the response
func (p httpPublisher) postJSON(ctx context.Context, path, accessToken string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", p.platform, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", p.platform, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", p.platform, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", p.platform, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &publishError{Platform: p.platform, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%s: decode response: %w", p.platform, err)
		}
	}
	return nil
}

// checkUsable rejects publishes on expired or revoked accounts
func checkUsable(account *social.Account) error {
	if account == nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account is required")
	}
	if !account.IsUsable() {
		return shared.NewDomainError("ACCOUNT_UNUSABLE", "Account is not connected or its token expired")
	}
	return nil
}

// renderBody appends hashtags to the post body the way most platforms
// expect them, as trailing #tags.
func renderBody(content socialapp.PublishContent) string {
	if len(content.Hashtags) == 0 {
		return content.Body
	}
	var sb strings.Builder
	sb.WriteString(content.Body)
	sb.WriteString("\n\n")
	for i, tag := range content.Hashtags {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("#" + strings.TrimPrefix(tag, "#"))
	}
	return sb.String()
}

// Registry maps platforms to their publishers
type Registry struct {
	publishers map[social.Platform]socialapp.Publisher
}

// NewRegistry creates a registry with every supported platform adapter
func NewRegistry(timeout time.Duration) *Registry {
	r := &Registry{publishers: make(map[social.Platform]socialapp.Publisher)}
	r.Register(NewTwitterPublisher(timeout))
	r.Register(NewInstagramPublisher(timeout))
	r.Register(NewLinkedInPublisher(timeout))
	r.Register(NewFacebookPublisher(timeout))
	return r
}

// NewEmptyRegistry creates a registry without adapters, for tests
func NewEmptyRegistry() *Registry {
	return &Registry{publishers: make(map[social.Platform]socialapp.Publisher)}
}

// Register adds or replaces the publisher for its platform
func (r *Registry) Register(p socialapp.Publisher) {
	r.publishers[p.Platform()] = p
}

// For returns the publisher for a platform
func (r *Registry) For(platform social.Platform) (socialapp.Publisher, error) {
	p, ok := r.publishers[platform]
	if !ok {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "No publisher registered for "+string(platform))
	}
	return p, nil
}

// Ensure Registry implements PublisherRegistry
var _ socialapp.PublisherRegistry = (*Registry)(nil)
