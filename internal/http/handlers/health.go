package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pearl-backend/internal/http/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Ready reports whether the database answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "not_ready", errors.New("database not configured"))
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		response.RespondError(c, http.StatusServiceUnavailable, "not_ready", errors.New("database unavailable"))
		return
	}
	c.String(http.StatusOK, "ready")
}
