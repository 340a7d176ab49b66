package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	apiauth "github.com/jon4hz/modhub/internal/api/auth"
	"github.com/jon4hz/modhub/internal/catalog"
)

// Mods returns the filtered catalog as JSON.
func (h *Handler) Mods(c *gin.Context) {
	mods, err := h.store.Query(c.Request.Context(), queryFrom(c))
	if err != nil {
		log.Error("Failed to query catalog", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to query catalog",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"mods":     mods,
		"fallback": h.store.FromFallback(),
	})
}

// Recommendations returns the mods related to a mod as JSON.
func (h *Handler) Recommendations(c *gin.Context) {
	id, err := catalog.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid mod ID",
		})
		return
	}

	mods, err := h.store.Recommendations(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrModNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"mods":    mods,
	})
}

// Me returns the current user's information.
func (h *Handler) Me(c *gin.Context) {
	user := apiauth.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"authenticated": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
		"user":          user,
		"isModerator":   user.IsModerator(),
		"isAdmin":       user.IsAdmin(),
	})
}
