package session

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest Role = "GUEST"
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ContextKey is the gin context key the auth middleware stores the session under.
const ContextKey = "session"

// Session is the identity a request acts as. It replaces the loose
// name/email/admin flags the web client used to keep in local storage.
type Session struct {
	ID          string    `json:"session_id"`
	UserID      string    `json:"user_id,omitempty"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Role        Role      `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
}

// New creates a session with a fresh id.
func New(role Role, userID, displayName, email string) *Session {
	return &Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		DisplayName: displayName,
		Email:       email,
		Role:        role,
		IssuedAt:    time.Now().UTC(),
	}
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Attach stores the session on the request context.
func Attach(c *gin.Context, s *Session) {
	c.Set(ContextKey, s)
}

// FromContext returns the session the auth middleware attached, if any.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}
