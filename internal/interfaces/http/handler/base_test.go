package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Success(c, gin.H{"name": "acme"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.True(t, body["success"].(bool))
	assert.Equal(t, "acme", body["data"].(map[string]interface{})["name"])
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(45), meta["total"])
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(3), meta["total_pages"])
}

func TestBaseHandler_HandleError_DomainError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleError(c, shared.NewDomainError("SLUG_TAKEN", "Slug is already in use"))

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeEnvelope(t, w)
	assert.False(t, body["success"].(bool))
	errInfo := body["error"].(map[string]interface{})
	assert.Equal(t, "SLUG_TAKEN", errInfo["code"])
	assert.Equal(t, "Slug is already in use", errInfo["message"])
}

func TestBaseHandler_HandleError_NotFound(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleError(c, shared.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBaseHandler_HandleError_UnknownError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleError(c, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeEnvelope(t, w)
	errInfo := body["error"].(map[string]interface{})
	assert.Equal(t, "INTERNAL_ERROR", errInfo["code"])
	// Internal details never leak to the client
	assert.NotContains(t, errInfo["message"], assert.AnError.Error())
}

func TestBaseHandler_AgencyID(t *testing.T) {
	h := &BaseHandler{}
	c, _ := newTestContext()

	want := uuid.New()
	c.Set(middleware.JWTAgencyIDKey, want.String())

	got, ok := h.agencyID(c)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestBaseHandler_AgencyID_Missing(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	_, ok := h.agencyID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBaseHandler_ActorID(t *testing.T) {
	h := &BaseHandler{}
	c, _ := newTestContext()

	assert.Nil(t, h.actorID(c))

	want := uuid.New()
	c.Set(middleware.JWTUserIDKey, want.String())
	got := h.actorID(c)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestBaseHandler_BindID(t *testing.T) {
	h := &BaseHandler{}
	c, _ := newTestContext()

	want := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: want.String()}}

	got, ok := h.bindID(c)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestBaseHandler_BindID_Invalid(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := h.bindID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
