package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record behind one login cookie. It caches the
// user summary so /api/me never touches the database.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its lifetime.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store persists sessions keyed by ID. Implementations must treat Delete of
// an unknown ID as a no-op so logout stays idempotent.
type Store interface {
	Save(ctx context.Context, s Session) error
	// Get returns (nil, nil) when the session is absent or expired.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// New builds a session for the user with a fresh ID and the given lifetime.
func New(userID int64, name, email string, ttl time.Duration) Session {
	return Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  name,
		UserEmail: email,
		ExpiresAt: time.Now().Add(ttl),
	}
}
