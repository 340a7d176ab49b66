// Package auth tracks who is signed in to the marketplace.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/session"
	"github.com/jon4hz/modhub/pkg/hubapi"
)

// MinPasswordLength is the shortest password accepted by Register.
const MinPasswordLength = 6

const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
	msgMissingFields      = "Missing required fields"
	msgPasswordTooShort   = "Password must be at least 6 characters"
)

// Client is the part of the marketplace API the session needs.
type Client interface {
	Login(ctx context.Context, email, password string) (*hubapi.AuthResult, error)
	Register(ctx context.Context, username, email, password string) (*hubapi.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*models.User, error)
}

// Error is returned when a login or registration did not succeed.
// Message is safe to show to the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Session is the authentication state of one client.
type Session struct {
	store  session.Store
	client Client

	mu   sync.RWMutex
	user *models.User
}

// NewSession creates a session over the given token slot.
func NewSession(store session.Store, client Client) *Session {
	return &Session{
		store:  store,
		client: client,
	}
}

// Resume restores the current user. A user cached by the store is trusted,
// otherwise a stored token is verified against the server.
func (s *Session) Resume(ctx context.Context) {
	token := s.Token(ctx)
	if token == "" {
		s.setUser(nil)
		return
	}
	if us, ok := s.store.(session.UserStore); ok {
		if user := us.User(); user != nil {
			s.setUser(user)
			return
		}
	}
	s.Verify(ctx)
}

// Verify checks the stored token with the server. On any failure the token is
// removed and the session becomes anonymous. It never fails.
func (s *Session) Verify(ctx context.Context) {
	token := s.Token(ctx)
	if token == "" {
		s.setUser(nil)
		return
	}

	user, err := s.client.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, hubapi.ErrSessionInvalid) {
			log.Debug("Stored session is no longer valid", "error", err)
		} else {
			log.Warn("Failed to verify session", "error", err)
		}
		s.clear(ctx)
		return
	}

	s.setUser(user)
	s.cacheUser(ctx, user)
}

// Login signs in with email and password. On failure the stored token is left untouched.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &Error{Message: msgMissingFields}
	}

	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, authError(err, msgLoginFailed)
	}
	if err := s.establish(ctx, res); err != nil {
		return nil, &Error{Message: msgLoginFailed, Err: err}
	}
	log.Info("User logged in", "username", res.User.Username, "role", res.User.Role)
	return res.User, nil
}

// Register creates an account and signs in with it.
func (s *Session) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, &Error{Message: msgMissingFields}
	}
	if len([]rune(password)) < MinPasswordLength {
		return nil, &Error{Message: msgPasswordTooShort}
	}

	res, err := s.client.Register(ctx, username, email, password)
	if err != nil {
		return nil, authError(err, msgRegistrationFailed)
	}
	if err := s.establish(ctx, res); err != nil {
		return nil, &Error{Message: msgRegistrationFailed, Err: err}
	}
	log.Info("User registered", "username", res.User.Username)
	return res.User, nil
}

// Logout notifies the server and then always forgets the local session,
// whatever the outcome of the network call.
func (s *Session) Logout(ctx context.Context) error {
	if token := s.Token(ctx); token != "" {
		if err := s.client.Logout(ctx, token); err != nil {
			log.Warn("Failed to notify server about logout", "error", err)
		}
	}
	return s.clear(ctx)
}

// Token returns the stored bearer token or an empty string.
func (s *Session) Token(ctx context.Context) string {
	token, err := s.store.Token(ctx)
	if err != nil {
		log.Error("Failed to read session token", "error", err)
		return ""
	}
	return token
}

// User returns the current user or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Role returns the role of the current user, RoleGuest when anonymous.
func (s *Session) Role() models.Role {
	if user := s.User(); user != nil {
		return user.Role
	}
	return models.RoleGuest
}

func (s *Session) IsAuthenticated() bool { return s.User() != nil }

func (s *Session) IsModerator() bool { return s.Role().AtLeast(models.RoleModerator) }

func (s *Session) IsAdmin() bool { return s.Role().AtLeast(models.RoleAdmin) }

func (s *Session) establish(ctx context.Context, res *hubapi.AuthResult) error {
	if us, ok := s.store.(session.UserStore); ok {
		us.SetUser(res.User)
	}
	if err := s.store.SetToken(ctx, res.SessionToken); err != nil {
		return err
	}
	s.setUser(res.User)
	return nil
}

func (s *Session) cacheUser(ctx context.Context, user *models.User) {
	us, ok := s.store.(session.UserStore)
	if !ok {
		return
	}
	us.SetUser(user)
	// re-saving the token persists the cached user alongside it
	if err := s.store.SetToken(ctx, s.Token(ctx)); err != nil {
		log.Error("Failed to cache verified user", "error", err)
	}
}

func (s *Session) clear(ctx context.Context) error {
	s.setUser(nil)
	if us, ok := s.store.(session.UserStore); ok {
		us.SetUser(nil)
	}
	if err := s.store.Clear(ctx); err != nil {
		log.Error("Failed to clear session token", "error", err)
		return err
	}
	return nil
}

func (s *Session) setUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func authError(err error, fallback string) *Error {
	if msg, ok := hubapi.ServerMessage(err); ok {
		return &Error{Message: msg, Err: err}
	}
	return &Error{Message: fallback, Err: err}
}
