package social

import (
	"context"
	"time"

	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/domain/social"
)

const instagramAPIBaseURL = "https://graph.instagram.com"

// InstagramPublisher publishes via the Instagram content publishing API.
// Publishing is a two-step flow: create a media container, then publish it.
type InstagramPublisher struct {
	httpPublisher
}

// NewInstagramPublisher creates a new InstagramPublisher
func NewInstagramPublisher(timeout time.Duration) *InstagramPublisher {
	return &InstagramPublisher{newHTTPPublisher(social.PlatformInstagram, instagramAPIBaseURL, timeout)}
}

type igContainerRequest struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

type igContainerResponse struct {
	ID string `json:"id"`
}

type igPublishRequest struct {
	CreationID string `json:"creation_id"`
}

type igPublishResponse struct {
	ID string `json:"id"`
}

// Publish creates a media container for the first media asset and publishes it
func (p *InstagramPublisher) Publish(ctx context.Context, account *social.Account, content socialapp.PublishContent) (string, error) {
	if err := checkUsable(account); err != nil {
		return "", err
	}

	var container igContainerResponse
	err := p.postJSON(ctx, "/me/media", account.AccessToken, igContainerRequest{
		ImageURL: firstMediaURL(content),
		Caption:  renderBody(content),
	}, &container)
	if err != nil {
		return "", err
	}

	var published igPublishResponse
	err = p.postJSON(ctx, "/me/media_publish", account.AccessToken, igPublishRequest{
		CreationID: container.ID,
	}, &published)
	if err != nil {
		return "", err
	}
	return published.ID, nil
}

func firstMediaURL(content socialapp.PublishContent) string {
	if len(content.MediaURLs) == 0 {
		return ""
	}
	return content.MediaURLs[0]
}

var _ socialapp.Publisher = (*InstagramPublisher)(nil)
