package social

import (
	"context"
	"time"

	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/social"
)

const linkedinAPIBaseURL = "https://api.linkedin.com"

// LinkedInPublisher publishes via the LinkedIn posts API
type LinkedInPublisher struct {
	httpPublisher
}

// NewLinkedInPublisher creates a new LinkedInPublisher
func NewLinkedInPublisher(timeout time.Duration) *LinkedInPublisher {
	return &LinkedInPublisher{newHTTPPublisher(social.PlatformLinkedIn, linkedinAPIBaseURL, timeout)}
}

type linkedinPostRequest struct {
	Commentary string `json:"commentary"`
	Visibility string `json:"visibility"`
}

type linkedinPostResponse struct {
	ID string `json:"id"`
}

// Publish creates a LinkedIn post and returns its URN
func (p *LinkedInPublisher) Publish(ctx context.Context, account *social.Account, content socialapp.PublishContent) (string, error) {
	if err := checkUsable(account); err != nil {
		return "", err
	}

	var resp linkedinPostResponse
	err := p.postJSON(ctx, "/rest/posts", account.AccessToken, linkedinPostRequest{
		Commentary: renderBody(content),
		Visibility: "PUBLIC",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

var _ socialapp.Publisher = (*LinkedInPublisher)(nil)
