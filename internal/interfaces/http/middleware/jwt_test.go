package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyhub/backend/internal/infrastructure/auth"
	"github.com/agencyhub/backend/internal/infrastructure/config"
)

func newTestJWTService(accessExpiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars!!",
		RefreshSecret:          "test-refresh-secret-key-32-chars!!!",
		AccessTokenExpiration:  accessExpiration,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "agencyhub-test",
		MaxRefreshCount:        10,
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, role string) *auth.TokenPair {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		AgencyID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "owner@example.com",
		Role:     role,
	})
	require.NoError(t, err)
	return pair
}

func setupJWTRouter(svc *auth.JWTService, cfg JWTMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg.JWTService = svc
	router := gin.New()
	router.Use(JWTAuthMiddleware(cfg))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": GetJWTRole(c)})
	})
	router.POST("/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/bot/jobs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair := newTestToken(t, svc, "OWNER")
	router := setupJWTRouter(svc, JWTMiddlewareConfig{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OWNER", body["role"])
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := setupJWTRouter(svc, JWTMiddlewareConfig{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := setupJWTRouter(svc, JWTMiddlewareConfig{})

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc123", "just-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q should be rejected", header)
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	pair := newTestToken(t, svc, "OWNER")
	router := setupJWTRouter(svc, JWTMiddlewareConfig{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "TOKEN_EXPIRED", errInfo["code"])
}

func TestJWTAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair := newTestToken(t, svc, "OWNER")
	router := setupJWTRouter(svc, JWTMiddlewareConfig{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := setupJWTRouter(svc, JWTMiddlewareConfig{
		SkipPaths:        []string{"/auth/login"},
		SkipPathPrefixes: []string{"/bot"},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/bot/jobs", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Non-skipped path still requires a token
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type blacklistVerifier struct{}

func (blacklistVerifier) VerifyAccessClaims(_ context.Context, _ *auth.Claims) error {
	return auth.ErrTokenBlacklisted
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair := newTestToken(t, svc, "OWNER")
	router := setupJWTRouter(svc, JWTMiddlewareConfig{Verifier: blacklistVerifier{}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "TOKEN_REVOKED", errInfo["code"])
}
