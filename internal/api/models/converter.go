package models

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
)

// ModView is a mod prepared for rendering in the catalog and detail views.
type ModView struct {
	Mod
	DownloadsShort string `json:"downloadsShort"`
	DownloadsFull  string `json:"downloadsFull"`
	UpdatedAgo     string `json:"updatedAgo,omitempty"`
}

// ToModView converts a Mod to its view representation.
func ToModView(m Mod) ModView {
	v := ModView{
		Mod:            m,
		DownloadsShort: ShortCount(m.Downloads),
		DownloadsFull:  humanize.Comma(int64(m.Downloads)),
	}
	if m.UpdatedAt != nil && !m.UpdatedAt.IsZero() {
		v.UpdatedAgo = timediff.TimeDiff(*m.UpdatedAt, timediff.WithStartTime(time.Now()))
	}
	return v
}

// ToModViews converts a slice of mods to views, keeping their order.
func ToModViews(mods []Mod) []ModView {
	result := make([]ModView, len(mods))
	for i, m := range mods {
		result[i] = ToModView(m)
	}
	return result
}

// ShortCount renders a download counter the way the catalog cards do ("245K").
func ShortCount(n int) string {
	return humanize.Comma(int64(math.Round(float64(n)/1000))) + "K"
}
