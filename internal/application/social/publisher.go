package social

import (
	"context"

	"github.com/agencyhub/backend/internal/domain/social"
)

// PublishContent is the platform-agnostic payload of one publish attempt
type PublishContent struct {
	Body      string
	Hashtags  []string
	MediaURLs []string
}

// Publisher pushes content to one social platform on behalf of a
// connected account. Implemented by the infrastructure layer.
type Publisher interface {
	// Platform returns the platform this publisher serves
	Platform() social.Platform

	// Publish posts the content and returns the platform-assigned post ID
	Publish(ctx context.Context, account *social.Account, content PublishContent) (string, error)
}

// PublisherRegistry resolves the publisher for a platform
type PublisherRegistry interface {
	For(platform social.Platform) (Publisher, error)
}
