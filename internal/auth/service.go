package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"zomaksho/internal/config"
	"zomaksho/internal/session"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("missing required fields")
)

const guestName = "Guest"

// Login is a freshly issued session and its bearer token.
type Login struct {
	Token   string           `json:"token"`
	Session *session.Session `json:"session"`
}

type Service struct {
	repo     UserRepository
	sessions *session.Manager
	admin    config.AdminConfig
}

func NewService(repo UserRepository, sessions *session.Manager, admin config.AdminConfig) *Service {
	return &Service{repo: repo, sessions: sessions, admin: admin}
}

// LoginGuest starts an anonymous session.
func (s *Service) LoginGuest() (*Login, error) {
	return s.issue(session.New(session.RoleGuest, "", guestName, ""))
}

// LoginUser signs the user in, registering them first when the email is
// unknown.
func (s *Service) LoginUser(ctx context.Context, name, email, password string) (*Login, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user, err = s.register(ctx, name, email, password)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	default:
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	return s.issue(session.New(session.RoleUser, user.ID, user.Name, user.Email))
}

func (s *Service) register(ctx context.Context, name, email, password string) (*User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     session.RoleUser,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	log.WithField("user", user.ID).Info("user registered")
	return user, nil
}

// LoginAdmin checks the configured placeholder credentials.
func (s *Service) LoginAdmin(username, password string) (*Login, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if s.admin.Username == "" || !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}
	return s.issue(session.New(session.RoleAdmin, "", "Admin", ""))
}

// Logout clears the session so its token stops working.
func (s *Service) Logout(sess *session.Session) {
	s.sessions.Clear(sess.ID)
}

func (s *Service) issue(sess *session.Session) (*Login, error) {
	token, err := s.sessions.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Login{Token: token, Session: sess}, nil
}
