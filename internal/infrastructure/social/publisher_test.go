package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	socialapp "github.com/agencyhub/backend/internal/application/social"
	domainsocial "github.com/agencyhub/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnectedAccount(t *testing.T, platform domainsocial.Platform) *domainsocial.Account {
	account, err := domainsocial.NewAccount(uuid.New(), uuid.New(), uuid.New(), platform, "@acme", "token", "refresh", nil)
	require.NoError(t, err)
	return account
}

func TestRenderBody(t *testing.T) {
	t.Run("appends hashtags with prefix", func(t *testing.T) {
		body := renderBody(socialapp.PublishContent{
			Body:     "Launch day.",
			Hashtags: []string{"launch", "#startup"},
		})
		assert.Equal(t, "Launch day.\n\n#launch #startup", body)
	})

	t.Run("leaves body untouched without hashtags", func(t *testing.T) {
		body := renderBody(socialapp.PublishContent{Body: "Launch day."})
		assert.Equal(t, "Launch day.", body)
	})
}

func TestTwitterPublisher_Publish(t *testing.T) {
	t.Run("returns the platform post ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2/tweets", r.URL.Path)
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

			var req tweetRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req.Text, "Launch day.")

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "tw-123"}})
		}))
		defer server.Close()

		publisher := NewTwitterPublisher(5 * time.Second)
		publisher.baseURL = server.URL

		externalID, err := publisher.Publish(context.Background(), newConnectedAccount(t, domainsocial.PlatformTwitter), socialapp.PublishContent{
			Body: "Launch day.",
		})

		assert.NoError(t, err)
		assert.Equal(t, "tw-123", externalID)
	})

	t.Run("rejects unusable account", func(t *testing.T) {
		account := newConnectedAccount(t, domainsocial.PlatformTwitter)
		require.NoError(t, account.Revoke())

		publisher := NewTwitterPublisher(5 * time.Second)
		_, err := publisher.Publish(context.Background(), account, socialapp.PublishContent{Body: "x"})

		assert.Error(t, err)
	})

	t.Run("surfaces token rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		publisher := NewTwitterPublisher(5 * time.Second)
		publisher.baseURL = server.URL

		_, err := publisher.Publish(context.Background(), newConnectedAccount(t, domainsocial.PlatformTwitter), socialapp.PublishContent{Body: "x"})

		assert.Error(t, err)
		assert.True(t, IsTokenRejected(err))
	})
}

func TestInstagramPublisher_Publish(t *testing.T) {
	t.Run("runs the container then publish flow", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			switch r.URL.Path {
			case "/me/media":
				_ = json.NewEncoder(w).Encode(igContainerResponse{ID: "container-1"})
			case "/me/media_publish":
				var req igPublishRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "container-1", req.CreationID)
				_ = json.NewEncoder(w).Encode(igPublishResponse{ID: "ig-456"})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		publisher := NewInstagramPublisher(5 * time.Second)
		publisher.baseURL = server.URL

		externalID, err := publisher.Publish(context.Background(), newConnectedAccount(t, domainsocial.PlatformInstagram), socialapp.PublishContent{
			Body:      "Launch day.",
			MediaURLs: []string{"https://cdn.example.com/x.png"},
		})

		assert.NoError(t, err)
		assert.Equal(t, "ig-456", externalID)
		assert.Equal(t, []string{"/me/media", "/me/media_publish"}, paths)
	})
}

func TestRegistry(t *testing.T) {
	t.Run("resolves all supported platforms", func(t *testing.T) {
		registry := NewRegistry(5 * time.Second)

		for _, platform := range domainsocial.AllPlatforms() {
			publisher, err := registry.For(platform)
			assert.NoError(t, err)
			assert.Equal(t, platform, publisher.Platform())
		}
	})

	t.Run("errors on unknown platform", func(t *testing.T) {
		registry := NewEmptyRegistry()
		_, err := registry.For(domainsocial.PlatformTwitter)
		assert.Error(t, err)
	})
}
