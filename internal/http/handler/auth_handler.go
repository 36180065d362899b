package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/config"
	httpmiddleware "github.com/mladjabiznis1-source/sales-tracker/internal/http/middleware"
	"github.com/mladjabiznis1-source/sales-tracker/internal/service"
	"github.com/mladjabiznis1-source/sales-tracker/internal/session"
)

// AuthHandler exposes registration, login, logout and session identity.
type AuthHandler struct {
	auth   *service.AuthService
	guard  *httpmiddleware.Auth
	codec  *session.Codec
	cfg    config.Config
	logger *zap.Logger
}

// NewAuthHandler wires dependencies.
func NewAuthHandler(auth *service.AuthService, guard *httpmiddleware.Auth, codec *session.Codec, cfg config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, guard: guard, codec: codec, cfg: cfg, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user, sess, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, sess)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user, sess, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, sess)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id := h.guard.SessionID(c); id != "" {
		if err := h.auth.Logout(c.Request.Context(), id); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me reports the session identity, or a null user when unauthenticated. It
// reads the session cache only and never hits the database.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), h.guard.SessionID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sess session.Session) {
	maxAge := int(h.cfg.SessionTTL.Seconds())
	c.SetCookie(session.CookieName, h.codec.Encode(sess.ID), maxAge, "/", "", false, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}
