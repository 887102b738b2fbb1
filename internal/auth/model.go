package auth

import (
	"time"

	"zomaksho/internal/session"
)

// User is a registered diner. Password holds the bcrypt hash.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Role      session.Role
	CreatedAt time.Time
}
