// Package session holds the single slot in which the client keeps its bearer token.
package session

import (
	"context"
	"sync"

	"github.com/jon4hz/modhub/internal/api/models"
)

// Key is the name of the slot holding the bearer token.
const Key = "session_token"

// Store is the persistent slot for the session token.
// Token returns an empty string when no token is stored.
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// UserStore is implemented by stores that can also remember the verified user,
// so it does not have to be verified again on every request.
type UserStore interface {
	User() *models.User
	SetUser(user *models.User)
}

var _ Store = (*Memory)(nil)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns a Memory store, optionally seeded with a token.
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
