package handler

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	apiauth "github.com/jon4hz/modhub/internal/api/auth"
	"github.com/jon4hz/modhub/internal/api/flash"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/catalog"
	"github.com/jon4hz/modhub/internal/locale"
	"github.com/jon4hz/modhub/internal/moderation"
)

type uploadForm struct {
	Title        string `form:"title"`
	Game         string `form:"game"`
	Category     string `form:"category"`
	Description  string `form:"description"`
	Version      string `form:"version"`
	Requirements string `form:"requirements"`
	ImageEmoji   string `form:"image_emoji"`
}

func (f uploadForm) upload() models.Upload {
	return models.Upload{
		Title:        strings.TrimSpace(f.Title),
		Game:         strings.TrimSpace(f.Game),
		Category:     strings.TrimSpace(f.Category),
		Description:  strings.TrimSpace(f.Description),
		Version:      strings.TrimSpace(f.Version),
		Requirements: strings.TrimSpace(f.Requirements),
		ImageEmoji:   f.ImageEmoji,
	}
}

func (h *Handler) renderUpload(c *gin.Context, status int, form uploadForm) {
	if form.ImageEmoji == "" {
		form.ImageEmoji = moderation.Images[0]
	}
	all := h.store.Mods(c.Request.Context())
	h.html(c, status, "upload.html", gin.H{
		"Title":      locale.FromContext(c).T("upload_title"),
		"Nav":        "upload",
		"Form":       form,
		"Games":      catalog.GamesOf(all),
		"Categories": catalog.CategoriesOf(all),
		"Images":     moderation.Images,
	})
}

// UploadForm renders the upload form.
func (h *Handler) UploadForm(c *gin.Context) {
	h.renderUpload(c, http.StatusOK, uploadForm{})
}

// Upload submits a new mod for moderation. On failure the form is shown again with the entered values.
func (h *Handler) Upload(c *gin.Context) {
	l := locale.FromContext(c)

	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithError(http.StatusBadRequest, err) //nolint:errcheck
		return
	}

	mod, err := h.moderation.Submit(c.Request.Context(), apiauth.SessionFrom(c), form.upload())
	if err != nil {
		log.Warn("Failed to upload mod", "title", form.Title, "error", err)
		failure(c, "flash_upload_failed", err)
		h.renderUpload(c, http.StatusUnprocessableEntity, form)
		return
	}

	log.Debug("Mod uploaded", "id", mod.ID)
	flash.Success(c, l.T("flash_upload_success"), l.T("flash_upload_hint"))
	c.Redirect(http.StatusSeeOther, "/")
}

// Moderation renders the queue of pending mods.
func (h *Handler) Moderation(c *gin.Context) {
	pending, err := h.moderation.Pending(c.Request.Context(), apiauth.SessionFrom(c))
	if err != nil {
		log.Error("Failed to load pending mods", "error", err)
		failure(c, "flash_error", err)
		pending = nil
	}

	h.html(c, http.StatusOK, "moderation.html", gin.H{
		"Title":   locale.FromContext(c).T("moderation_title"),
		"Nav":     "moderation",
		"Pending": models.ToModViews(pending),
	})
}

// Approve publishes a pending mod.
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, func(s moderation.Actor, id int64) (*models.Mod, error) {
		return h.moderation.Approve(c.Request.Context(), s, id)
	}, "flash_approved")
}

// Reject declines a pending mod with an optional reason.
func (h *Handler) Reject(c *gin.Context) {
	reason := strings.TrimSpace(c.PostForm("reason"))
	h.decide(c, func(s moderation.Actor, id int64) (*models.Mod, error) {
		return h.moderation.Reject(c.Request.Context(), s, id, reason)
	}, "flash_rejected")
}

func (h *Handler) decide(c *gin.Context, do func(moderation.Actor, int64) (*models.Mod, error), successID string) {
	l := locale.FromContext(c)

	id, err := catalog.ParseID(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}

	mod, err := do(apiauth.SessionFrom(c), id)
	if err != nil {
		log.Warn("Moderation failed", "id", id, "error", err)
		failure(c, "flash_moderation_failed", err)
	} else {
		flash.Success(c, l.T(successID), mod.Title)
	}
	c.Redirect(http.StatusSeeOther, "/moderation")
}
