package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupBodyLimitRouter(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/upload", BodyLimit(maxBytes), func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"size": len(data)})
	})
	return router
}

func TestBodyLimit_UnderLimit(t *testing.T) {
	router := setupBodyLimitRouter(64)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("small payload"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBodyLimit_ContentLengthTooLarge(t *testing.T) {
	router := setupBodyLimitRouter(8)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("this body is clearly too big"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBodyLimit_StreamedBodyCapped(t *testing.T) {
	router := setupBodyLimitRouter(8)

	// Without Content-Length the check falls to the capped reader
	req := httptest.NewRequest(http.MethodPost, "/upload", io.NopCloser(strings.NewReader("this body is clearly too big")))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
