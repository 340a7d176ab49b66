package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"guest", RoleGuest},
		{"user", RoleUser},
		{"moderator", RoleModerator},
		{"Admin", RoleAdmin},
		{" moderator ", RoleModerator},
		{"superuser", RoleGuest},
		{"", RoleGuest},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.in))
		})
	}
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleModerator))
	assert.True(t, RoleModerator.AtLeast(RoleModerator))
	assert.True(t, RoleModerator.AtLeast(RoleUser))
	assert.False(t, RoleUser.AtLeast(RoleModerator))
	assert.False(t, RoleGuest.AtLeast(RoleUser))
}

func TestUser_RoleFlags(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsModerator())
	assert.False(t, nilUser.IsAdmin())

	assert.False(t, (&User{Role: RoleUser}).IsModerator())
	assert.True(t, (&User{Role: RoleModerator}).IsModerator())
	assert.False(t, (&User{Role: RoleModerator}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsModerator())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}

func TestUser_JSONRole(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"username":"modmaster","email":"m@x.io","role":"moderator"}`), &u))
	assert.Equal(t, RoleModerator, u.Role)
	assert.Equal(t, "MO", u.Initials())

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"role":"moderator"`)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "MM", Initials("ModMaster"))
	assert.Equal(t, "ИВ", Initials("иван"))
	assert.Equal(t, "A", Initials("a"))
	assert.Equal(t, "", Initials("  "))
}

func TestUpload_Validate(t *testing.T) {
	u := Upload{Title: "t", Game: "g", Category: "c", Description: "d", Version: "1.0"}
	assert.NoError(t, u.Validate())

	u.Version = " "
	err := u.Validate()
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, err.Error(), "version")
}

func TestToModView(t *testing.T) {
	updated := time.Now().Add(-2 * time.Hour)
	v := ToModView(Mod{ID: 1, Downloads: 245000, UpdatedAt: &updated})

	assert.Equal(t, "245K", v.DownloadsShort)
	assert.Equal(t, "245,000", v.DownloadsFull)
	assert.Equal(t, "2 hours ago", v.UpdatedAgo)

	v = ToModView(Mod{Downloads: 999})
	assert.Equal(t, "1K", v.DownloadsShort)
	assert.Equal(t, "0K", ShortCount(0))
	assert.Empty(t, v.UpdatedAgo)

	assert.Len(t, ToModViews([]Mod{{ID: 1}, {ID: 2}}), 2)
}
