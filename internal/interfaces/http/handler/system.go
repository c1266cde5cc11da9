package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/infrastructure/config"
	"github.com/agencyhub/backend/internal/infrastructure/persistence"
	"github.com/agencyhub/backend/internal/interfaces/http/dto"
)

var startedAt = time.Now().UTC()

// SystemHandler serves health and readiness probes plus basic
// instance metadata under /system.
type SystemHandler struct {
	BaseHandler
	db     *persistence.Database
	redis  *redis.Client
	app    config.AppConfig
	logger *zap.Logger
}

func NewSystemHandler(db *persistence.Database, redisClient *redis.Client, app config.AppConfig, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{db: db, redis: redisClient, app: app, logger: logger}
}

func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.Ping)
	rg.GET("/system/info", h.Info)
}

// Health reports process liveness plus database and Redis connectivity
func (h *SystemHandler) Health(c *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	dbStatus := "up"
	redisStatus := "up"

	if err := h.db.Ping(); err != nil {
		h.logger.Error("health check database ping failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		overall = "degraded"
		dbStatus = "down"
	}

	if h.redis == nil {
		redisStatus = "disabled"
	} else if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		h.logger.Error("health check redis ping failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		overall = "degraded"
		redisStatus = "down"
	}

	payload := gin.H{
		"status":   overall,
		"time":     time.Now().UTC().Format(time.RFC3339),
		"database": dbStatus,
		"redis":    redisStatus,
	}
	if stats, err := h.db.PoolStats(); err == nil {
		payload["db_pool"] = stats
	}

	c.JSON(status, dto.NewSuccessResponse(payload))
}

// Ping is a trivial liveness echo for authenticated clients
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Info returns instance metadata for the dashboard about page
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":        h.app.Name,
		"environment": h.app.Env,
		"go_version":  runtime.Version(),
		"started_at":  startedAt.Format(time.RFC3339),
		"uptime":      time.Since(startedAt).Round(time.Second).String(),
	})
}
