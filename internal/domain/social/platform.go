package social

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agencyhub/backend/internal/domain/shared"
)

// Platform represents a supported social network
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
)

// AllPlatforms lists every supported platform
func AllPlatforms() []Platform {
	return []Platform{PlatformTwitter, PlatformInstagram, PlatformLinkedIn, PlatformFacebook}
}

// ValidatePlatform validates a platform value
func ValidatePlatform(platform Platform) error {
	switch platform {
	case PlatformTwitter, PlatformInstagram, PlatformLinkedIn, PlatformFacebook:
		return nil
	default:
		return shared.NewDomainError("INVALID_PLATFORM", "Unsupported platform: "+string(platform))
	}
}

// ContentRules holds per-platform publishing constraints
type ContentRules struct {
	MaxTextLength int
	MaxHashtags   int // 0 means no limit
	RequiresMedia bool
	MediaFormats  []string
}

var platformRules = map[Platform]ContentRules{
	PlatformTwitter: {
		MaxTextLength: 280,
		MaxHashtags:   10,
		MediaFormats:  []string{"png", "jpg", "jpeg", "gif", "webp"},
	},
	PlatformInstagram: {
		MaxTextLength: 2200,
		MaxHashtags:   30,
		RequiresMedia: true,
		MediaFormats:  []string{"png", "jpg", "jpeg"},
	},
	PlatformLinkedIn: {
		MaxTextLength: 3000,
		MediaFormats:  []string{"png", "jpg", "jpeg", "gif"},
	},
	PlatformFacebook: {
		MaxTextLength: 63206,
		MediaFormats:  []string{"png", "jpg", "jpeg", "gif", "webp"},
	},
}

// RulesFor returns the content rules for a platform
func RulesFor(platform Platform) (ContentRules, error) {
	rules, ok := platformRules[platform]
	if !ok {
		return ContentRules{}, shared.NewDomainError("INVALID_PLATFORM", "Unsupported platform: "+string(platform))
	}
	return rules, nil
}

// ValidateContent checks post content against a platform's rules.
// mediaKeys are storage object keys whose extension determines the format.
func ValidateContent(platform Platform, body string, hashtags, mediaKeys []string) error {
	rules, err := RulesFor(platform)
	if err != nil {
		return err
	}

	// Platform limits count characters, not bytes
	if utf8.RuneCountInString(body) > rules.MaxTextLength {
		return shared.NewDomainError("CONTENT_TOO_LONG",
			fmt.Sprintf("Content exceeds %d characters for %s", rules.MaxTextLength, platform))
	}
	if rules.MaxHashtags > 0 && len(hashtags) > rules.MaxHashtags {
		return shared.NewDomainError("TOO_MANY_HASHTAGS",
			fmt.Sprintf("At most %d hashtags allowed on %s", rules.MaxHashtags, platform))
	}
	if rules.RequiresMedia && len(mediaKeys) == 0 {
		return shared.NewDomainError("MEDIA_REQUIRED",
			fmt.Sprintf("%s posts require at least one media asset", platform))
	}

	for _, key := range mediaKeys {
		format := mediaFormat(key)
		if !formatAllowed(rules.MediaFormats, format) {
			return shared.NewDomainError("UNSUPPORTED_MEDIA_FORMAT",
				fmt.Sprintf("Format %q is not supported on %s", format, platform))
		}
	}

	return nil
}

func mediaFormat(key string) string {
	idx := strings.LastIndex(key, ".")
	if idx < 0 || idx == len(key)-1 {
		return ""
	}
	return strings.ToLower(key[idx+1:])
}

func formatAllowed(allowed []string, format string) bool {
	for _, f := range allowed {
		if f == format {
			return true
		}
	}
	return false
}
