package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mladjabiznis1-source/sales-tracker/internal/service"
	"github.com/mladjabiznis1-source/sales-tracker/internal/session"
)

const (
	userIDKey   = "userID"
	userNameKey = "userName"
)

// Auth guards routes behind a valid session cookie.
type Auth struct {
	AuthService *service.AuthService
	Codec       *session.Codec
}

// RequireSession rejects requests without a live session and injects the
// session identity into the gin context for handlers downstream.
func (m *Auth) RequireSession(c *gin.Context) {
	sess := m.lookup(c)
	if sess == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.Set(userIDKey, sess.UserID)
	c.Set(userNameKey, sess.UserName)
	c.Next()
}

// SessionID extracts and verifies the session cookie. Empty when the cookie
// is missing or its signature does not check out.
func (m *Auth) SessionID(c *gin.Context) string {
	value, err := c.Cookie(session.CookieName)
	if err != nil || value == "" {
		return ""
	}
	id, err := m.Codec.Decode(value)
	if err != nil {
		return ""
	}
	return id
}

func (m *Auth) lookup(c *gin.Context) *session.Session {
	id := m.SessionID(c)
	if id == "" {
		return nil
	}
	sess, err := m.AuthService.Session(c.Request.Context(), id)
	if err != nil || sess == nil {
		return nil
	}
	return sess
}

// GetUserID returns the authenticated user's ID set by RequireSession.
func GetUserID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// GetUserName returns the authenticated user's display name.
func GetUserName(c *gin.Context) (string, bool) {
	value, ok := c.Get(userNameKey)
	if !ok {
		return "", false
	}
	name, ok := value.(string)
	return name, ok
}
