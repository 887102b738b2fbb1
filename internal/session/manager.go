package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionCleared = errors.New("session has been cleared")
	ErrMissingSecret  = errors.New("JWT_SECRET not set")
)

type claims struct {
	UserID      string `json:"userID,omitempty"`
	DisplayName string `json:"name"`
	Email       string `json:"email,omitempty"`
	Role        Role   `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates signed session tokens and remembers which
// sessions were explicitly cleared.
type Manager struct {
	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	cleared map[string]time.Time
	hooks   []func(sessionID string)
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		cleared: make(map[string]time.Time),
	}
}

func (m *Manager) Issue(s *Session) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrMissingSecret
	}
	if s == nil || s.ID == "" {
		return "", errors.New("empty session passed to Issue")
	}

	issued := s.IssuedAt
	if issued.IsZero() {
		issued = time.Now().UTC()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:      s.UserID,
		DisplayName: s.DisplayName,
		Email:       s.Email,
		Role:        s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(m.ttl)),
		},
	})
	return token.SignedString(m.secret)
}

func (m *Manager) Parse(tokenString string) (*Session, error) {
	if len(m.secret) == 0 {
		return nil, ErrMissingSecret
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || c.ID == "" {
		return nil, ErrInvalidToken
	}

	if m.isCleared(c.ID) {
		return nil, ErrSessionCleared
	}

	s := &Session{
		ID:          c.ID,
		UserID:      c.UserID,
		DisplayName: c.DisplayName,
		Email:       c.Email,
		Role:        c.Role,
	}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	return s, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// OnClear registers fn to run after a session is cleared, so per-session
// state held elsewhere can be dropped with it.
func (m *Manager) OnClear(fn func(sessionID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Clear invalidates a session id until its tokens would have expired anyway
// and then runs the OnClear hooks.
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	now := time.Now()
	for id, until := range m.cleared {
		if now.After(until) {
			delete(m.cleared, id)
		}
	}
	m.cleared[sessionID] = now.Add(m.ttl)
	hooks := m.hooks
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(sessionID)
	}
}

func (m *Manager) isCleared(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cleared[sessionID]
	return ok
}
