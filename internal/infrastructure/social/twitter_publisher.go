package social

import (
	"context"
	"time"

	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/social"
)

const twitterAPIBaseURL = "https://api.twitter.com"

// TwitterPublisher publishes tweets via the v2 API
type TwitterPublisher struct {
	httpPublisher
}

// NewTwitterPublisher creates a new TwitterPublisher
func NewTwitterPublisher(timeout time.Duration) *TwitterPublisher {
	return &TwitterPublisher{newHTTPPublisher(social.PlatformTwitter, twitterAPIBaseURL, timeout)}
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Publish posts a tweet and returns its ID
func (p *TwitterPublisher) Publish(ctx context.Context, account *social.Account, content socialapp.PublishContent) (string, error) {
	if err := checkUsable(account); err != nil {
		return "", err
	}

	var resp tweetResponse
	err := p.postJSON(ctx, "/2/tweets", account.AccessToken, tweetRequest{Text: renderBody(content)}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Data.ID, nil
}

var _ socialapp.Publisher = (*TwitterPublisher)(nil)
