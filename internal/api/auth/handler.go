package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/modhub/internal/api/flash"
	appauth "github.com/jon4hz/modhub/internal/auth"
	"github.com/jon4hz/modhub/internal/locale"
	"github.com/jon4hz/modhub/pkg/hubapi"
)

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

type registerForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// Login signs the browser in with the posted credentials.
func (p *Provider) Login(c *gin.Context) {
	l := locale.FromContext(c)

	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithError(http.StatusBadRequest, err) //nolint:errcheck
		return
	}

	user, err := p.sessionFor(c).Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		log.Debug("Login failed", "email", form.Email, "error", err)
		flash.Error(c, l.T("flash_login_failed"), Message(l, err))
		c.Redirect(http.StatusSeeOther, loginURL("login", form.Next))
		return
	}

	flash.Success(c, l.T("flash_login_success"), l.T("flash_login_welcome"))
	log.Debug("Browser signed in", "username", user.Username)
	c.Redirect(http.StatusSeeOther, safeNext(form.Next))
}

// Register creates an account and signs the browser in with it.
func (p *Provider) Register(c *gin.Context) {
	l := locale.FromContext(c)

	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithError(http.StatusBadRequest, err) //nolint:errcheck
		return
	}

	if _, err := p.sessionFor(c).Register(c.Request.Context(), form.Username, form.Email, form.Password); err != nil {
		log.Debug("Registration failed", "username", form.Username, "error", err)
		flash.Error(c, l.T("flash_register_failed"), Message(l, err))
		c.Redirect(http.StatusSeeOther, loginURL("register", form.Next))
		return
	}

	flash.Success(c, l.T("flash_register_success"), l.T("flash_register_welcome"))
	c.Redirect(http.StatusSeeOther, safeNext(form.Next))
}

// Logout signs the browser out. The local session is cleared even if the server is unreachable.
func (p *Provider) Logout(c *gin.Context) {
	l := locale.FromContext(c)

	s := SessionFrom(c)
	if s == nil {
		s = p.sessionFor(c)
	}
	if err := s.Logout(c.Request.Context()); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	flash.Add(c, flash.KindInfo, l.T("flash_logout"), "")
	c.Redirect(http.StatusSeeOther, "/")
}

// RateLimited answers auth posts of clients that are sending too many.
func (p *Provider) RateLimited(c *gin.Context) {
	l := locale.FromContext(c)
	log.Warn("Rate limited auth request", "ip", c.ClientIP(), "path", c.Request.URL.Path)
	flash.Error(c, l.T("flash_error"), l.T("flash_rate_limited"))
	c.Redirect(http.StatusSeeOther, "/login")
}

// Message turns an error of a marketplace call into text for the user.
// Messages from the server are shown verbatim.
func Message(l *locale.Localizer, err error) string {
	if msg, ok := hubapi.ServerMessage(err); ok {
		return msg
	}
	if hubapi.IsNetwork(err) {
		return l.T("flash_network")
	}
	var authErr *appauth.Error
	if errors.As(err, &authErr) {
		// the title already says the request failed
		if authErr.Err != nil {
			return ""
		}
		return authErr.Message
	}
	return err.Error()
}

func loginURL(tab, next string) string {
	q := url.Values{}
	q.Set("tab", tab)
	if next = safeNext(next); next != "/" {
		q.Set("next", next)
	}
	return "/login?" + q.Encode()
}

// safeNext only allows redirects to local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
