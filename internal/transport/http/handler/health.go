package handler

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"nytinsight/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type ServerStatus struct {
	Status      string `json:"status"`
	Uptime      int    `json:"uptime"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, ServerStatus{
		Status:      "online",
		Uptime:      int(time.Since(h.app.StartedAt).Seconds()),
		Version:     h.app.Config.App.Version,
		Environment: h.app.Config.App.Env,
	})
}

// Check reports the corpus directory and, when rate limiting is on, redis.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	corpusStatus := h.checkCorpus()
	deps := gin.H{"corpus": corpusStatus}
	allOK := corpusStatus.OK
	if h.app.Redis != nil {
		redisStatus := h.checkRedis(ctx)
		deps["redis"] = redisStatus
		allOK = allOK && redisStatus.OK
	}

	statusCode := http.StatusOK
	if !allOK {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"app":          h.app.Config.App.Name,
		"env":          h.app.Config.App.Env,
		"uptime_sec":   int(time.Since(h.app.StartedAt).Seconds()),
		"dependencies": deps,
	})
}

func (h *HealthHandler) checkCorpus() dependencyStatus {
	info, err := os.Stat(h.app.Config.Corpus.Dir)
	if err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	if !info.IsDir() {
		return dependencyStatus{OK: false, Message: "not a directory"}
	}
	return dependencyStatus{OK: true}
}

func (h *HealthHandler) checkRedis(ctx context.Context) dependencyStatus {
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}
