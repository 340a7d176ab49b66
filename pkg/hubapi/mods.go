package hubapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/samber/lo"
)

// wireMod accepts both the database row spelling and the catalog spelling of a mod.
type wireMod struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	Game            string           `json:"game"`
	Category        string           `json:"category"`
	Author          string           `json:"author"`
	AuthorName      string           `json:"author_name"`
	AuthorAvatar    string           `json:"authorAvatar"`
	Downloads       int              `json:"downloads"`
	Rating          float64          `json:"rating"`
	Reviews         *int             `json:"reviews"`
	ReviewCount     *int             `json:"review_count"`
	Version         string           `json:"version"`
	Image           string           `json:"image"`
	ImageEmoji      string           `json:"image_emoji"`
	Requirements    string           `json:"requirements"`
	Description     string           `json:"description"`
	Status          models.ModStatus `json:"status"`
	RejectionReason *string          `json:"rejection_reason"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (w wireMod) toModel() models.Mod {
	author := lo.CoalesceOrEmpty(w.Author, w.AuthorName)
	avatar := w.AuthorAvatar
	if avatar == "" {
		avatar = models.Initials(author)
	}
	reviews, _ := lo.Coalesce(w.Reviews, w.ReviewCount)
	return models.Mod{
		ID:              w.ID,
		Title:           w.Title,
		Game:            w.Game,
		Category:        w.Category,
		Author:          author,
		AuthorAvatar:    avatar,
		Downloads:       w.Downloads,
		Rating:          w.Rating,
		Reviews:         lo.FromPtr(reviews),
		Version:         w.Version,
		Image:           lo.CoalesceOrEmpty(w.Image, w.ImageEmoji, models.DefaultImage),
		Requirements:    w.Requirements,
		Description:     w.Description,
		Status:          w.Status,
		RejectionReason: lo.FromPtr(w.RejectionReason),
		CreatedAt:       parseTime(w.CreatedAt),
		UpdatedAt:       parseTime(w.UpdatedAt),
	}
}

type listModsResponse struct {
	Mods []wireMod `json:"mods"`
}

// ListMods returns the mods with the given status. The token may be empty for the approved listing.
func (c *Client) ListMods(ctx context.Context, token string, status models.ModStatus) ([]models.Mod, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}

	var resp listModsResponse
	if err := c.doRequest(ctx, http.MethodGet, c.modsURL, token, query, nil, &resp); err != nil {
		return nil, err
	}

	return lo.Map(resp.Mods, func(w wireMod, _ int) models.Mod {
		return w.toModel()
	}), nil
}

type modResponse struct {
	Success bool    `json:"success"`
	Mod     wireMod `json:"mod"`
	Error   string  `json:"error"`
}

// CreateMod submits a new mod. The server stores it as pending.
// The returned mod combines the submitted fields with the id and status assigned by the server.
func (c *Client) CreateMod(ctx context.Context, token string, upload models.Upload) (*models.Mod, error) {
	if upload.ImageEmoji == "" {
		upload.ImageEmoji = models.DefaultImage
	}

	var resp modResponse
	if err := c.doRequest(ctx, http.MethodPost, c.modsURL, token, nil, upload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ValidationError{StatusCode: http.StatusOK, Message: resp.Error}
	}

	mod := resp.Mod.toModel()
	mod.Title = lo.CoalesceOrEmpty(mod.Title, upload.Title)
	mod.Game = lo.CoalesceOrEmpty(mod.Game, upload.Game)
	mod.Category = lo.CoalesceOrEmpty(mod.Category, upload.Category)
	mod.Description = lo.CoalesceOrEmpty(mod.Description, upload.Description)
	mod.Version = lo.CoalesceOrEmpty(mod.Version, upload.Version)
	mod.Requirements = lo.CoalesceOrEmpty(mod.Requirements, upload.Requirements)
	if resp.Mod.Image == "" && resp.Mod.ImageEmoji == "" {
		mod.Image = upload.ImageEmoji
	}
	if mod.Status == "" {
		mod.Status = models.ModStatusPending
	}
	return &mod, nil
}

type updateStatusRequest struct {
	ModID           int64            `json:"mod_id"`
	Status          models.ModStatus `json:"status"`
	RejectionReason *string          `json:"rejection_reason"`
}

// UpdateModStatus records a moderation decision. Approvals send a null reason.
func (c *Client) UpdateModStatus(ctx context.Context, token string, decision models.Decision) (*models.Mod, error) {
	req := updateStatusRequest{
		ModID:  decision.ModID,
		Status: decision.Status,
	}
	if decision.Status == models.ModStatusRejected && decision.Reason != "" {
		req.RejectionReason = lo.ToPtr(decision.Reason)
	}

	var resp modResponse
	if err := c.doRequest(ctx, http.MethodPut, c.modsURL, token, nil, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ValidationError{StatusCode: http.StatusOK, Message: resp.Error}
	}

	mod := resp.Mod.toModel()
	if mod.ID == 0 {
		mod.ID = decision.ModID
	}
	if mod.Status == "" {
		mod.Status = decision.Status
	}
	return &mod, nil
}
