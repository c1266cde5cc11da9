package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyhub/backend/internal/domain/identity"
)

func setupPermissionRouter(role string, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if role != "" {
		router.Use(func(c *gin.Context) {
			c.Set(JWTRoleKey, role)
			c.Next()
		})
	}
	router.GET("/resource", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRequirePermission_Granted(t *testing.T) {
	router := setupPermissionRouter(string(identity.RoleOwner), RequirePermission(identity.PermBillingManage))

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_Denied(t *testing.T) {
	router := setupPermissionRouter(string(identity.RoleCollaborator), RequirePermission(identity.PermBillingManage))

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response["success"].(bool))
	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "FORBIDDEN", errInfo["code"])
}

func TestRequirePermission_NoRole(t *testing.T) {
	router := setupPermissionRouter("", RequirePermission(identity.PermClientsRead))

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission_UnknownRole(t *testing.T) {
	router := setupPermissionRouter("INTERN", RequirePermission(identity.PermClientsRead))

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyPermission_OneGranted(t *testing.T) {
	router := setupPermissionRouter(string(identity.RoleManager),
		RequireAnyPermission(identity.PermBillingManage, identity.PermClientsRead))

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyPermission_NoneGranted(t *testing.T) {
	router := setupPermissionRouter(string(identity.RoleCollaborator),
		RequireAnyPermission(identity.PermBillingManage, identity.PermUsersWrite))

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
