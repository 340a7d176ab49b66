// Package flash stores one-shot notifications in the browser session.
package flash

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Flash is a notification shown once on the next rendered page.
type Flash struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

// Add queues a notification for the next page.
func Add(c *gin.Context, kind Kind, title, message string) {
	data, err := json.Marshal(Flash{Kind: kind, Title: title, Message: message})
	if err != nil {
		log.Error("Failed to encode flash", "error", err)
		return
	}
	session := sessions.Default(c)
	session.AddFlash(string(data))
	if err := session.Save(); err != nil {
		log.Error("Failed to save flash", "error", err)
	}
}

func Success(c *gin.Context, title, message string) { Add(c, KindSuccess, title, message) }

func Error(c *gin.Context, title, message string) { Add(c, KindError, title, message) }

// Pop returns and removes all queued notifications.
func Pop(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		log.Error("Failed to save session after reading flashes", "error", err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			continue
		}
		var f Flash
		if err := json.Unmarshal([]byte(s), &f); err != nil {
			log.Debug("Dropping malformed flash", "error", err)
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes
}
