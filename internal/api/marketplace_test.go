package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type fakeUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	password string
	token    string
}

type fakeMod struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Game            string  `json:"game"`
	Category        string  `json:"category"`
	AuthorName      string  `json:"author_name"`
	Description     string  `json:"description"`
	Version         string  `json:"version"`
	Requirements    string  `json:"requirements"`
	ImageEmoji      string  `json:"image_emoji"`
	Downloads       int     `json:"downloads"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"review_count"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason"`
}

// fakeMarketplace serves the auth and mods endpoints from memory.
type fakeMarketplace struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	users    []*fakeUser
	mods     []*fakeMod
	nextID   int64
	modsDown bool
	authDown bool
	logouts  int
}

func newFakeMarketplace(t *testing.T) *fakeMarketplace {
	t.Helper()
	m := &fakeMarketplace{
		t:      t,
		nextID: 100,
		users: []*fakeUser{
			{ID: 1, Username: "player", Email: "player@example.com", Role: "user", password: "secret", token: "user-token"},
			{ID: 2, Username: "modmaster", Email: "mod@example.com", Role: "moderator", password: "secret", token: "mod-token"},
			{ID: 3, Username: "root", Email: "admin@example.com", Role: "admin", password: "secret", token: "admin-token"},
		},
		mods: []*fakeMod{
			{ID: 1, Title: "Ultra HD Texture Pack", Game: "Minecraft", Category: "Графика", AuthorName: "PixelMaster", Description: "Textures", Version: "2.1.0", ImageEmoji: "🎨", Downloads: 245000, Rating: 4.8, ReviewCount: 1250, Status: "approved"},
			{ID: 2, Title: "Realistic Weapons Overhaul", Game: "Fallout 4", Category: "Оружие", AuthorName: "GunSmith", Description: "Weapons", Version: "3.5.2", ImageEmoji: "🔫", Downloads: 189000, Rating: 4.6, ReviewCount: 890, Status: "approved"},
			{ID: 3, Title: "Minecraft Shaders", Game: "Minecraft", Category: "Графика", AuthorName: "Shady", Description: "Light", Version: "1.0", ImageEmoji: "💡", Downloads: 1000, Rating: 4.1, ReviewCount: 10, Status: "approved"},
			{ID: 4, Title: "Secret Pending Mod", Game: "Minecraft", Category: "Квесты", AuthorName: "player", Description: "Waiting", Version: "0.1", Status: "pending"},
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth", m.handleAuth)
	mux.HandleFunc("/mods", m.handleMods)
	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *fakeMarketplace) authURL() string { return m.server.URL + "/auth" }
func (m *fakeMarketplace) modsURL() string { return m.server.URL + "/mods" }

func (m *fakeMarketplace) reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		m.t.Errorf("failed to encode reply: %v", err)
	}
}

func (m *fakeMarketplace) userByToken(r *http.Request) *fakeUser {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	for _, u := range m.users {
		if token != "" && u.token == token {
			return u
		}
	}
	return nil
}

func (m *fakeMarketplace) handleAuth(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.authDown {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	var req struct {
		Action   string `json:"action"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.reply(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	switch req.Action {
	case "login":
		for _, u := range m.users {
			if u.Email == req.Email && u.password == req.Password {
				m.reply(w, http.StatusOK, map[string]any{"success": true, "user": u, "session_token": u.token})
				return
			}
		}
		m.reply(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	case "register":
		for _, u := range m.users {
			if u.Email == req.Email {
				m.reply(w, http.StatusBadRequest, map[string]string{"error": "User already exists"})
				return
			}
		}
		m.nextID++
		u := &fakeUser{ID: m.nextID, Username: req.Username, Email: req.Email, Role: "user", password: req.Password, token: "new-token"}
		m.users = append(m.users, u)
		m.reply(w, http.StatusOK, map[string]any{"success": true, "user": u, "session_token": u.token})
	case "verify":
		if u := m.userByToken(r); u != nil {
			m.reply(w, http.StatusOK, map[string]any{"success": true, "user": u})
			return
		}
		m.reply(w, http.StatusUnauthorized, map[string]string{"error": "Invalid session"})
	case "logout":
		m.logouts++
		m.reply(w, http.StatusOK, map[string]bool{"success": true})
	default:
		m.reply(w, http.StatusBadRequest, map[string]string{"error": "Invalid action"})
	}
}

func (m *fakeMarketplace) handleMods(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.modsDown {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	switch r.Method {
	case http.MethodGet:
		status := r.URL.Query().Get("status")
		if status == "" {
			status = "approved"
		}
		if status != "approved" {
			if u := m.userByToken(r); u == nil || (u.Role != "moderator" && u.Role != "admin") {
				m.reply(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
				return
			}
		}
		mods := []*fakeMod{}
		for _, mod := range m.mods {
			if mod.Status == status {
				mods = append(mods, mod)
			}
		}
		m.reply(w, http.StatusOK, map[string]any{"mods": mods})

	case http.MethodPost:
		u := m.userByToken(r)
		if u == nil {
			m.reply(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		var mod fakeMod
		if err := json.NewDecoder(r.Body).Decode(&mod); err != nil {
			m.reply(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
			return
		}
		m.nextID++
		mod.ID = m.nextID
		mod.AuthorName = u.Username
		mod.Status = "pending"
		m.mods = append(m.mods, &mod)
		m.reply(w, http.StatusCreated, map[string]any{"success": true, "mod": mod})

	case http.MethodPut:
		if u := m.userByToken(r); u == nil || (u.Role != "moderator" && u.Role != "admin") {
			m.reply(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
			return
		}
		var req struct {
			ModID           int64   `json:"mod_id"`
			Status          string  `json:"status"`
			RejectionReason *string `json:"rejection_reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			m.reply(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
			return
		}
		for _, mod := range m.mods {
			if mod.ID == req.ModID {
				mod.Status = req.Status
				mod.RejectionReason = req.RejectionReason
				m.reply(w, http.StatusOK, map[string]any{"success": true, "mod": mod})
				return
			}
		}
		m.reply(w, http.StatusNotFound, map[string]string{"error": "Mod not found"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (m *fakeMarketplace) mod(id int64) fakeMod {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mod := range m.mods {
		if mod.ID == id {
			return *mod
		}
	}
	m.t.Fatalf("mod %d not found", id)
	return fakeMod{}
}

func (m *fakeMarketplace) modByTitle(title string) (fakeMod, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mod := range m.mods {
		if mod.Title == title {
			return *mod, true
		}
	}
	return fakeMod{}, false
}

func (m *fakeMarketplace) setModsDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modsDown = down
}

func (m *fakeMarketplace) setAuthDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authDown = down
}
