package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Role is the privilege level of a user. Higher values include every privilege of the lower ones.
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RoleModerator
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleGuest:     "guest",
	RoleUser:      "user",
	RoleModerator: "moderator",
	RoleAdmin:     "admin",
}

// ParseRole maps the role string used by the auth endpoint to a Role.
// Unknown values map to RoleGuest.
func ParseRole(s string) Role {
	for role, name := range roleNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return role
		}
	}
	return RoleGuest
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleGuest]
}

// AtLeast reports whether r includes the privileges of other.
func (r Role) AtLeast(other Role) bool { return r >= other }

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

// User is the authenticated account as reported by the auth endpoint.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// IsModerator reports whether the user may work the moderation queue.
func (u *User) IsModerator() bool { return u != nil && u.Role.AtLeast(RoleModerator) }

// IsAdmin reports whether the user is an administrator.
func (u *User) IsAdmin() bool { return u != nil && u.Role.AtLeast(RoleAdmin) }

// Initials returns the avatar fallback shown next to the username.
func (u *User) Initials() string {
	if u == nil {
		return ""
	}
	return Initials(u.Username)
}

// Initials returns the first two letters of name, upper-cased.
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= 2 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(string([]rune(name)[:2]))
}

// ModStatus is the moderation state of a mod.
type ModStatus string

const (
	ModStatusPending  ModStatus = "pending"
	ModStatusApproved ModStatus = "approved"
	ModStatusRejected ModStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s ModStatus) Valid() bool {
	switch s {
	case ModStatusPending, ModStatusApproved, ModStatusRejected:
		return true
	}
	return false
}

// DefaultImage is used when a mod was submitted without an emoji.
const DefaultImage = "📦"

// Mod is a game modification record.
type Mod struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Game            string     `json:"game"`
	Category        string     `json:"category"`
	Author          string     `json:"author"`
	AuthorAvatar    string     `json:"authorAvatar"`
	Downloads       int        `json:"downloads"`
	Rating          float64    `json:"rating"`
	Reviews         int        `json:"reviews"`
	Version         string     `json:"version"`
	Image           string     `json:"image"`
	Requirements    string     `json:"requirements"`
	Description     string     `json:"description"`
	Status          ModStatus  `json:"status,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// Upload holds the fields a user submits for a new mod.
type Upload struct {
	Title        string `json:"title"`
	Game         string `json:"game"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Version      string `json:"version"`
	Requirements string `json:"requirements"`
	ImageEmoji   string `json:"image_emoji"`
}

// ErrMissingFields is returned when a required upload field is empty.
var ErrMissingFields = errors.New("missing required fields")

// Validate checks the fields the mods endpoint requires.
func (u *Upload) Validate() error {
	required := map[string]string{
		"title":       u.Title,
		"game":        u.Game,
		"category":    u.Category,
		"description": u.Description,
		"version":     u.Version,
	}
	for _, name := range []string{"title", "game", "category", "description", "version"} {
		if strings.TrimSpace(required[name]) == "" {
			return fmt.Errorf("%w: %s", ErrMissingFields, name)
		}
	}
	return nil
}

// Decision is a moderator's verdict on a pending mod.
type Decision struct {
	ModID  int64
	Status ModStatus
	Reason string
}
