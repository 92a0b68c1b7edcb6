package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler devuelve estado y uptime del servicio.
type HealthHandler struct {
	appName   string
	version   string
	startedAt time.Time
}

func NewHealthHandler(appName, version string, startedAt time.Time) *HealthHandler {
	return &HealthHandler{appName: appName, version: version, startedAt: startedAt}
}

// Health maneja GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
