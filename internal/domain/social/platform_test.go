package social

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContent(t *testing.T) {
	t.Run("twitter rejects over 280 characters", func(t *testing.T) {
		err := ValidateContent(PlatformTwitter, strings.Repeat("a", 281), nil, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "280")
	})

	t.Run("twitter accepts exactly 280 characters", func(t *testing.T) {
		err := ValidateContent(PlatformTwitter, strings.Repeat("a", 280), nil, nil)

		assert.NoError(t, err)
	})

	t.Run("twitter counts characters, not bytes", func(t *testing.T) {
		// 280 two-byte characters would fail a byte-length check
		err := ValidateContent(PlatformTwitter, strings.Repeat("é", 280), nil, nil)

		assert.NoError(t, err)

		err = ValidateContent(PlatformTwitter, strings.Repeat("é", 281), nil, nil)

		assert.Error(t, err)
	})

	t.Run("twitter rejects more than 10 hashtags", func(t *testing.T) {
		hashtags := make([]string, 11)
		for i := range hashtags {
			hashtags[i] = "tag"
		}

		err := ValidateContent(PlatformTwitter, "hello", hashtags, nil)

		assert.Error(t, err)
	})

	t.Run("instagram requires media", func(t *testing.T) {
		err := ValidateContent(PlatformInstagram, "hello", nil, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "media")
	})

	t.Run("instagram accepts post with media", func(t *testing.T) {
		err := ValidateContent(PlatformInstagram, "hello", nil, []string{"assets/launch.jpg"})

		assert.NoError(t, err)
	})

	t.Run("instagram rejects more than 30 hashtags", func(t *testing.T) {
		hashtags := make([]string, 31)
		for i := range hashtags {
			hashtags[i] = "tag"
		}

		err := ValidateContent(PlatformInstagram, "hello", hashtags, []string{"a.jpg"})

		assert.Error(t, err)
	})

	t.Run("instagram rejects gif media", func(t *testing.T) {
		err := ValidateContent(PlatformInstagram, "hello", nil, []string{"assets/anim.gif"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "gif")
	})

	t.Run("linkedin rejects over 3000 characters", func(t *testing.T) {
		err := ValidateContent(PlatformLinkedIn, strings.Repeat("a", 3001), nil, nil)

		assert.Error(t, err)
	})

	t.Run("facebook accepts long content", func(t *testing.T) {
		err := ValidateContent(PlatformFacebook, strings.Repeat("a", 10000), nil, nil)

		assert.NoError(t, err)
	})

	t.Run("unknown platform fails", func(t *testing.T) {
		err := ValidateContent("myspace", "hello", nil, nil)

		assert.Error(t, err)
	})
}

func TestRulesFor(t *testing.T) {
	rules, err := RulesFor(PlatformTwitter)
	require.NoError(t, err)
	assert.Equal(t, 280, rules.MaxTextLength)
	assert.Equal(t, 10, rules.MaxHashtags)
	assert.False(t, rules.RequiresMedia)

	_, err = RulesFor("tiktok")
	assert.Error(t, err)
}
