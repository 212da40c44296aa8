package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/notewise/notewise/internal/pkg/errcode"
	"github.com/notewise/notewise/internal/pkg/response"
	"github.com/notewise/notewise/internal/repo"
)

type HealthHandler struct {
	db *repo.DB
}

func NewHealthHandler(db *repo.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// Ready also checks the database connection.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		response.Error(c, errcode.ErrInternal, "database unavailable")
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}
