package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// CookieName is the session cookie issued to browsers.
const CookieName = "st_session"

var errBadCookie = errors.New("invalid session cookie")

// Codec signs session IDs for cookie transport. The cookie value is
// "<id>.<hmac-sha256(id)>"; the session state itself stays server-side.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec from the configured session secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode returns the signed cookie value for a session ID.
func (c *Codec) Encode(id string) string {
	return id + "." + c.sign(id)
}

// Decode verifies the signature and returns the embedded session ID.
func (c *Codec) Decode(value string) (string, error) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", errBadCookie
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(id))) {
		return "", errBadCookie
	}
	return id, nil
}

func (c *Codec) sign(id string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}
