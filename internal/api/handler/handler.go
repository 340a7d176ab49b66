package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	apiauth "github.com/jon4hz/modhub/internal/api/auth"
	"github.com/jon4hz/modhub/internal/api/flash"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/auth"
	"github.com/jon4hz/modhub/internal/catalog"
	"github.com/jon4hz/modhub/internal/filter"
	"github.com/jon4hz/modhub/internal/locale"
	"github.com/jon4hz/modhub/internal/moderation"
)

const langCookieMaxAge = 365 * 24 * time.Hour

type Handler struct {
	store         *catalog.Store
	moderation    *moderation.Service
	locale        *locale.Bundle
	secureCookies bool
}

func New(store *catalog.Store, mod *moderation.Service, bundle *locale.Bundle, secureCookies bool) *Handler {
	return &Handler{
		store:         store,
		moderation:    mod,
		locale:        bundle,
		secureCookies: secureCookies,
	}
}

// html renders a page with the data every page needs.
func (h *Handler) html(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	l := locale.FromContext(c)
	if l == nil {
		l = h.locale.Localizer()
	}
	for _, key := range []string{"Title", "Nav"} {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}
	data["L"] = l
	data["Lang"] = l.Lang()
	data["Languages"] = h.locale.Languages()
	data["User"] = apiauth.UserFrom(c)
	data["Flashes"] = flash.Pop(c)
	data["Path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

func (h *Handler) errorPage(c *gin.Context, status int, messageID string) {
	l := locale.FromContext(c)
	h.html(c, status, "error.html", gin.H{
		"Status":  status,
		"Message": l.T(messageID),
	})
}

func (h *Handler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
		return
	}
	h.errorPage(c, http.StatusNotFound, "error_not_found")
}

// Home renders the catalog grid.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	q := queryFrom(c)

	mods, err := h.store.Query(ctx, q)
	if err != nil {
		log.Error("Failed to query catalog", "error", err)
		mods = nil
	}
	all := h.store.Mods(ctx)

	h.html(c, http.StatusOK, "catalog.html", gin.H{
		"Nav":        "catalog",
		"Query":      q,
		"Games":      catalog.GamesOf(all),
		"Categories": catalog.CategoriesOf(all),
		"Mods":       models.ToModViews(mods),
		"Fallback":   h.store.FromFallback(),
	})
}

// ModDetail renders a single mod with its recommendations.
func (h *Handler) ModDetail(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := catalog.ParseID(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}
	mod, err := h.store.Get(ctx, id)
	if err != nil {
		h.NotFound(c)
		return
	}

	h.html(c, http.StatusOK, "detail.html", gin.H{
		"Title":           mod.Title,
		"Nav":             "catalog",
		"Mod":             models.ToModView(mod),
		"Recommendations": models.ToModViews(catalog.Recommend(mod, h.store.Mods(ctx))),
	})
}

// Login renders the auth dialog.
func (h *Handler) Login(c *gin.Context) {
	if apiauth.UserFrom(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	tab := c.DefaultQuery("tab", "login")
	if tab != "register" {
		tab = "login"
	}
	h.html(c, http.StatusOK, "login.html", gin.H{
		"Tab":               tab,
		"Next":              c.Query("next"),
		"MinPasswordLength": auth.MinPasswordLength,
	})
}

// SetLanguage stores the picked language in a cookie and goes back.
func (h *Handler) SetLanguage(c *gin.Context) {
	lang := c.Param("code")
	if !h.locale.Supports(lang) {
		h.NotFound(c)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(locale.CookieName, lang, int(langCookieMaxAge.Seconds()), "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, backTo(c))
}

// backTo returns the local page the request came from.
func backTo(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func queryFrom(c *gin.Context) catalog.Query {
	q := catalog.Query{
		Search:   strings.TrimSpace(c.Query("q")),
		Game:     c.Query("game"),
		Category: c.Query("category"),
	}
	if filter.IsAll(q.Game) {
		q.Game = filter.All
	}
	if filter.IsAll(q.Category) {
		q.Category = filter.All
	}
	return q
}

// failure reports a failed marketplace call as a flash.
func failure(c *gin.Context, titleID string, err error) {
	l := locale.FromContext(c)
	var msg string
	switch {
	case errors.Is(err, moderation.ErrForbidden):
		msg = l.T("error_forbidden")
	case errors.Is(err, models.ErrMissingFields):
		msg = err.Error()
	default:
		msg = apiauth.Message(l, err)
	}
	flash.Error(c, l.T(titleID), msg)
}
