package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/service"
)

// WebhookHandler receives Google Form submissions.
type WebhookHandler struct {
	forms  *service.FormService
	logger *zap.Logger
}

// NewWebhookHandler wires dependencies.
func NewWebhookHandler(forms *service.FormService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{forms: forms, logger: logger}
}

// GoogleForm ingests one form submission. The payload is an arbitrary
// key/value map whose keys are the form's question texts.
func (h *WebhookHandler) GoogleForm(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	id, err := h.forms.Ingest(c.Request.Context(), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
		"message": "Form submission saved",
	})
}
