// Package auth wires the browser session into gin.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/modhub/internal/api/flash"
	"github.com/jon4hz/modhub/internal/api/models"
	appauth "github.com/jon4hz/modhub/internal/auth"
	"github.com/jon4hz/modhub/internal/config"
	"github.com/jon4hz/modhub/internal/gravatar"
	"github.com/jon4hz/modhub/internal/locale"
	"github.com/jon4hz/modhub/internal/session"
)

const (
	sessionContextKey = "session"
	userContextKey    = "user"
)

// Provider authenticates browser requests against the marketplace.
type Provider struct {
	client   appauth.Client
	gravatar *config.GravatarConfig
}

// New creates a provider. The gravatar config may be nil.
func New(client appauth.Client, gravatarCfg *config.GravatarConfig) *Provider {
	return &Provider{
		client:   client,
		gravatar: gravatarCfg,
	}
}

// LoadSession restores the auth session of the browser and stores it in the context.
// The token is verified once, after that the user cached in the cookie is trusted.
func (p *Provider) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := p.sessionFor(c)
		s.Resume(c.Request.Context())

		user := s.User()
		gravatar.Decorate(user, p.gravatar)

		c.Set(sessionContextKey, s)
		c.Set(userContextKey, user)
		c.Next()
	}
}

func (p *Provider) sessionFor(c *gin.Context) *appauth.Session {
	return appauth.NewSession(session.NewCookie(sessions.Default(c)), p.client)
}

// SessionFrom returns the session loaded by LoadSession.
func SessionFrom(c *gin.Context) *appauth.Session {
	if s, ok := c.Get(sessionContextKey); ok {
		if session, ok := s.(*appauth.Session); ok {
			return session
		}
	}
	return nil
}

// UserFrom returns the signed in user or nil.
func UserFrom(c *gin.Context) *models.User {
	if u, ok := c.Get(userContextKey); ok {
		if user, ok := u.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireUser rejects anonymous requests.
func (p *Provider) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFrom(c) == nil {
			if isAPI(c) {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			} else {
				l := locale.FromContext(c)
				flash.Add(c, flash.KindInfo, l.T("flash_login_required"), "")
				c.Redirect(http.StatusSeeOther, "/login")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireModerator rejects requests of users that may not moderate.
func (p *Provider) RequireModerator() gin.HandlerFunc {
	return requireRole(models.RoleModerator)
}

// RequireAdmin rejects requests of users that are not admins.
func (p *Provider) RequireAdmin() gin.HandlerFunc {
	return requireRole(models.RoleAdmin)
}

func requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFrom(c)
		if user == nil || !user.Role.AtLeast(role) {
			if isAPI(c) {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			} else {
				l := locale.FromContext(c)
				flash.Error(c, l.T("flash_error"), l.T("error_forbidden"))
				c.Redirect(http.StatusSeeOther, "/")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
