package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpmiddleware "github.com/mladjabiznis1-source/sales-tracker/internal/http/middleware"
	"github.com/mladjabiznis1-source/sales-tracker/internal/service"
)

// EntryHandler exposes owner-scoped entry CRUD and the public listings.
type EntryHandler struct {
	entries *service.EntryService
	logger  *zap.Logger
}

// NewEntryHandler wires dependencies.
func NewEntryHandler(entries *service.EntryService, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{entries: entries, logger: logger}
}

// List returns the caller's entries, newest date first.
func (h *EntryHandler) List(c *gin.Context) {
	userID, ok := httpmiddleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	entries, err := h.entries.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := httpmiddleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input service.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	id, err := h.entries.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (h *EntryHandler) Update(c *gin.Context) {
	userID, ok := httpmiddleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := entryID(c)
	if !ok {
		return
	}

	var input service.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.entries.Update(c.Request.Context(), id, userID, input); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *EntryHandler) Delete(c *gin.Context) {
	userID, ok := httpmiddleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.entries.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListPublic returns every entry across all owners. Intentionally
// unauthenticated; the dashboard renders the whole team.
func (h *EntryHandler) ListPublic(c *gin.Context) {
	entries, err := h.entries.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ListSubmissions returns all webhook form submissions in the camelCase
// projection the dashboard expects.
func (h *EntryHandler) ListSubmissions(c *gin.Context) {
	subs, err := h.entries.ListSubmissions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": subs})
}

func entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return 0, false
	}
	return id, true
}
