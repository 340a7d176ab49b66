// Package components holds the helpers available inside the page templates.
package components

import (
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/mergestat/timediff"
)

// FuncMap returns the template functions.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"relative": FormatRelativeTime,
		"comma":    FormatCount,
		"rating":   FormatRating,
		"initials": models.Initials,
	}
}

// FormatRelativeTime formats a time as a relative time string like "3 days ago".
// A nil time yields an empty string.
func FormatRelativeTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return timediff.TimeDiff(*t)
}

// FormatCount formats a count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatRating formats a rating with one decimal.
func FormatRating(r float64) string {
	return fmt.Sprintf("%.1f", r)
}
