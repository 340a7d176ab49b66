package session

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/jon4hz/modhub/internal/api/models"
)

const (
	keyUserID        = "user_id"
	keyUserUsername  = "user_username"
	keyUserEmail     = "user_email"
	keyUserRole      = "user_role"
	keyUserAvatarURL = "user_avatar_url"
)

var (
	_ Store     = (*Cookie)(nil)
	_ UserStore = (*Cookie)(nil)
)

// Cookie keeps the token inside the encrypted browser session.
type Cookie struct {
	session sessions.Session
}

// NewCookie wraps a gin session.
func NewCookie(session sessions.Session) *Cookie {
	return &Cookie{session: session}
}

func (c *Cookie) Token(context.Context) (string, error) {
	return getSessionString(c.session, Key), nil
}

func (c *Cookie) SetToken(_ context.Context, token string) error {
	c.session.Set(Key, token)
	return c.session.Save()
}

// Clear removes the token and the cached user, leaving flashes and preferences alone.
func (c *Cookie) Clear(context.Context) error {
	for _, key := range []string{Key, keyUserID, keyUserUsername, keyUserEmail, keyUserRole, keyUserAvatarURL} {
		c.session.Delete(key)
	}
	return c.session.Save()
}

// User returns the cached user or nil if the session has none.
func (c *Cookie) User() *models.User {
	id, ok := c.session.Get(keyUserID).(int64)
	if !ok {
		return nil
	}
	return &models.User{
		ID:        id,
		Username:  getSessionString(c.session, keyUserUsername),
		Email:     getSessionString(c.session, keyUserEmail),
		Role:      models.ParseRole(getSessionString(c.session, keyUserRole)),
		AvatarURL: getSessionString(c.session, keyUserAvatarURL),
	}
}

// SetUser caches the user in the session. The caller is responsible for saving.
func (c *Cookie) SetUser(user *models.User) {
	if user == nil {
		for _, key := range []string{keyUserID, keyUserUsername, keyUserEmail, keyUserRole, keyUserAvatarURL} {
			c.session.Delete(key)
		}
		return
	}
	c.session.Set(keyUserID, user.ID)
	c.session.Set(keyUserUsername, user.Username)
	c.session.Set(keyUserEmail, user.Email)
	c.session.Set(keyUserRole, user.Role.String())
	c.session.Set(keyUserAvatarURL, user.AvatarURL)
}

// Helper function to safely get session values.
func getSessionString(session sessions.Session, key string) string {
	if val := session.Get(key); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
