package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	status := http.StatusOK
	storage := "ok"
	if err := h.Storage.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		storage = "unhealthy: " + err.Error()
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"storage":   storage,
	})
}
