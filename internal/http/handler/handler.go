package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/service"
)

// respondError maps service errors to their HTTP status and hides everything
// else behind a generic 500 body.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if svcErr, ok := err.(*service.Error); ok {
		c.JSON(svcErr.Status, gin.H{"error": svcErr.Message})
		return
	}
	if logger == nil {
		logger = zap.L()
	}
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}
