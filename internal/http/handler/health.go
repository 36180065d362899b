package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness and the active database backend.
type HealthHandler struct {
	Database string
}

// NewHealthHandler constructs the root health endpoint.
func NewHealthHandler(database string) *HealthHandler {
	return &HealthHandler{Database: database}
}

func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "Sales Tracker API running",
		"database": h.Database,
	})
}
