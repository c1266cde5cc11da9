package social

import (
	"context"
	"time"

	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/social"
)

const facebookAPIBaseURL = "https://graph.facebook.com"

// FacebookPublisher publishes via the Facebook pages API
type FacebookPublisher struct {
	httpPublisher
}

// NewFacebookPublisher creates a new FacebookPublisher
func NewFacebookPublisher(timeout time.Duration) *FacebookPublisher {
	return &FacebookPublisher{newHTTPPublisher(social.PlatformFacebook, facebookAPIBaseURL, timeout)}
}

type facebookPostRequest struct {
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

type facebookPostResponse struct {
	ID string `json:"id"`
}

// Publish creates a page post and returns its ID
func (p *FacebookPublisher) Publish(ctx context.Context, account *social.Account, content socialapp.PublishContent) (string, error) {
	if err := checkUsable(account); err != nil {
		return "", err
	}

	var resp facebookPostResponse
	err := p.postJSON(ctx, "/me/feed", account.AccessToken, facebookPostRequest{
		Message: renderBody(content),
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

var _ socialapp.Publisher = (*FacebookPublisher)(nil)
