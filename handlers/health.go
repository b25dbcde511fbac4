package handlers

import (
	"net/http"

	"github.com/git-Adi/agenticAI-Travel/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	monitor *utils.HealthMonitor
}

func NewHealthHandler(monitor *utils.HealthMonitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Health reports liveness and the latest dependency snapshot.
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.monitor.Status()
	code := http.StatusOK
	state := "ok"
	if status.Redis != nil && !*status.Redis {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "message": "Hi, I'm your AI travel planner", "services": status})
}
