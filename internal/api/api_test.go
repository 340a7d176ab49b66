package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/modhub/internal/catalog"
	"github.com/jon4hz/modhub/internal/config"
	"github.com/jon4hz/modhub/internal/locale"
	"github.com/jon4hz/modhub/internal/moderation"
	"github.com/jon4hz/modhub/pkg/hubapi"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	market *fakeMarketplace
	app    *httptest.Server
}

func (s *ServerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *ServerTestSuite) SetupTest() {
	s.market = newFakeMarketplace(s.T())
	s.start(0)
}

func (s *ServerTestSuite) start(authPerMinute int) {
	if s.app != nil {
		s.app.Close()
	}

	cfg := &config.Config{
		Listen:        "127.0.0.1:0",
		SessionKey:    "test-secret",
		SessionMaxAge: 3600,
		API: &config.APIConfig{
			AuthURL:     s.market.authURL(),
			ModsURL:     s.market.modsURL(),
			TokenHeader: "Authorization",
			Timeout:     5 * time.Second,
		},
		Gravatar:  &config.GravatarConfig{},
		RateLimit: &config.RateLimitConfig{AuthPerMinute: authPerMinute},
	}

	client := hubapi.New(cfg.API)
	store := catalog.NewStore(client, nil)
	bundle, err := locale.New("ru")
	s.Require().NoError(err)

	server, err := New(cfg, client, store, moderation.New(client, store), nil, bundle, true)
	s.Require().NoError(err)
	s.app = httptest.NewServer(server.Handler())
}

func (s *ServerTestSuite) TearDownTest() {
	if s.app != nil {
		s.app.Close()
		s.app = nil
	}
}

func (s *ServerTestSuite) browser() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{Jar: jar}
}

func (s *ServerTestSuite) get(b *http.Client, path string) (int, string) {
	resp, err := b.Get(s.app.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, string(body)
}

func (s *ServerTestSuite) post(b *http.Client, path string, form url.Values) (int, string) {
	resp, err := b.PostForm(s.app.URL+path, form)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, string(body)
}

func (s *ServerTestSuite) login(b *http.Client, email string) string {
	_, body := s.post(b, "/login", url.Values{"email": {email}, "password": {"secret"}})
	s.Require().Contains(body, "Успешный вход")
	return body
}

func (s *ServerTestSuite) TestCatalog_OnlyApproved() {
	status, body := s.get(s.browser(), "/")
	s.Equal(http.StatusOK, status)
	s.Contains(body, "Ultra HD Texture Pack")
	s.Contains(body, "Realistic Weapons Overhaul")
	s.Contains(body, "245K")
	s.NotContains(body, "Secret Pending Mod")
	s.NotContains(body, "Сервер каталога недоступен")
}

func (s *ServerTestSuite) TestCatalog_Filter() {
	_, body := s.get(s.browser(), "/?q=texture&game=all&category=all")
	s.Contains(body, "Ultra HD Texture Pack")
	s.NotContains(body, "Realistic Weapons Overhaul")

	_, body = s.get(s.browser(), "/?category="+url.QueryEscape("Графика"))
	s.Contains(body, "Ultra HD Texture Pack")
	s.Contains(body, "Minecraft Shaders")
	s.NotContains(body, "Realistic Weapons Overhaul")
}

func (s *ServerTestSuite) TestCatalog_Fallback() {
	s.market.setModsDown(true)

	status, body := s.get(s.browser(), "/")
	s.Equal(http.StatusOK, status)
	s.Contains(body, "Сервер каталога недоступен")
	s.Contains(body, "Lighting Overhaul")
}

func (s *ServerTestSuite) TestModDetail() {
	status, body := s.get(s.browser(), "/mods/1")
	s.Equal(http.StatusOK, status)
	s.Contains(body, "Ultra HD Texture Pack")
	s.Contains(body, "245,000")
	s.Contains(body, "Похожие моды для тебя")
	s.Contains(body, "Minecraft Shaders")

	status, _ = s.get(s.browser(), "/mods/999")
	s.Equal(http.StatusNotFound, status)

	status, _ = s.get(s.browser(), "/mods/abc")
	s.Equal(http.StatusNotFound, status)
}

func (s *ServerTestSuite) TestLogin_WrongCredentials() {
	b := s.browser()
	_, body := s.post(b, "/login", url.Values{"email": {"player@example.com"}, "password": {"wrong"}})
	s.Contains(body, "Ошибка входа")
	s.Contains(body, "Invalid credentials")

	_, body = s.get(b, "/api/me")
	s.JSONEq(`{"success":true,"authenticated":false}`, body)
}

func (s *ServerTestSuite) TestLogin_AndLogout() {
	b := s.browser()
	body := s.login(b, "player@example.com")
	s.Contains(body, "player")
	s.Contains(body, "/upload")

	_, body = s.get(b, "/api/me")
	var me struct {
		Authenticated bool `json:"authenticated"`
		IsModerator   bool `json:"isModerator"`
		User          struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	s.Require().NoError(json.Unmarshal([]byte(body), &me))
	s.True(me.Authenticated)
	s.False(me.IsModerator)
	s.Equal("player", me.User.Username)
	s.Equal("user", me.User.Role)

	// logout clears the session even when the server cannot be reached
	s.market.setAuthDown(true)
	_, body = s.post(b, "/logout", nil)
	s.Contains(body, "Вы вышли из аккаунта")

	_, body = s.get(b, "/api/me")
	s.JSONEq(`{"success":true,"authenticated":false}`, body)
}

func (s *ServerTestSuite) TestRegister() {
	b := s.browser()
	_, body := s.post(b, "/register", url.Values{"username": {"newbie"}, "email": {"new@example.com"}, "password": {"123"}})
	s.Contains(body, "Ошибка регистрации")
	s.Contains(body, "Password must be at least 6 characters")

	_, body = s.post(b, "/register", url.Values{"username": {"copy"}, "email": {"player@example.com"}, "password": {"secret1"}})
	s.Contains(body, "User already exists")

	_, body = s.post(b, "/register", url.Values{"username": {"newbie"}, "email": {"new@example.com"}, "password": {"secret1"}})
	s.Contains(body, "Регистрация успешна")
	s.Contains(body, "newbie")
}

func (s *ServerTestSuite) TestUpload_RequiresUser() {
	_, body := s.get(s.browser(), "/upload")
	s.Contains(body, "Войдите, чтобы продолжить")
	s.Contains(body, "Вход в ModHub")
}

func (s *ServerTestSuite) TestUploadAndApprove() {
	user := s.browser()
	s.login(user, "player@example.com")

	status, body := s.get(user, "/upload")
	s.Equal(http.StatusOK, status)
	s.Contains(body, "Загрузить новый мод")

	status, body = s.post(user, "/upload", url.Values{"title": {"Missing Version"}, "game": {"Minecraft"}, "category": {"Квесты"}, "description": {"d"}})
	s.Equal(http.StatusUnprocessableEntity, status)
	s.Contains(body, "Ошибка загрузки мода")
	s.Contains(body, "Missing Version")

	_, body = s.post(user, "/upload", url.Values{
		"title":       {"Dragon Quest Line"},
		"game":        {"Minecraft"},
		"category":    {"Квесты"},
		"description": {"New quests"},
		"version":     {"1.0"},
		"image_emoji": {"🗡️"},
	})
	s.Contains(body, "Мод отправлен на модерацию")
	s.NotContains(body, "Dragon Quest Line")

	uploaded, ok := s.market.modByTitle("Dragon Quest Line")
	s.Require().True(ok)
	s.Equal("pending", uploaded.Status)
	s.Equal("player", uploaded.AuthorName)

	// users cannot moderate
	_, body = s.get(user, "/moderation")
	s.Contains(body, "Недостаточно прав")

	moderator := s.browser()
	s.login(moderator, "mod@example.com")
	_, body = s.get(moderator, "/moderation")
	s.Contains(body, "Dragon Quest Line")
	s.Contains(body, "Secret Pending Mod")
	s.Contains(body, "2 модов на проверке")

	_, body = s.post(moderator, fmt.Sprintf("/moderation/%d/approve", uploaded.ID), nil)
	s.Contains(body, "Мод одобрен")
	s.NotContains(body, "Dragon Quest Line</h3>")
	s.Equal("approved", s.market.mod(uploaded.ID).Status)
	s.Nil(s.market.mod(uploaded.ID).RejectionReason)

	_, body = s.get(user, "/")
	s.Contains(body, "Dragon Quest Line")
}

func (s *ServerTestSuite) TestReject() {
	moderator := s.browser()
	s.login(moderator, "mod@example.com")

	_, body := s.post(moderator, "/moderation/4/reject", url.Values{"reason": {"Too short"}})
	s.Contains(body, "Мод отклонён")
	s.Contains(body, "Нет модов на модерации")

	rejected := s.market.mod(4)
	s.Equal("rejected", rejected.Status)
	s.Require().NotNil(rejected.RejectionReason)
	s.Equal("Too short", *rejected.RejectionReason)

	_, body = s.get(moderator, "/")
	s.NotContains(body, "Secret Pending Mod")

	// terminal states cannot be decided again
	_, body = s.post(moderator, "/moderation/4/approve", nil)
	s.Contains(body, "Модерация не удалась")
	s.Equal("rejected", s.market.mod(4).Status)
}

func (s *ServerTestSuite) TestAPI() {
	b := s.browser()

	status, body := s.get(b, "/api/mods?game=Minecraft")
	s.Equal(http.StatusOK, status)
	var mods struct {
		Success  bool `json:"success"`
		Fallback bool `json:"fallback"`
		Mods     []struct {
			Title  string `json:"title"`
			Author string `json:"author"`
		} `json:"mods"`
	}
	s.Require().NoError(json.Unmarshal([]byte(body), &mods))
	s.True(mods.Success)
	s.False(mods.Fallback)
	s.Len(mods.Mods, 2)
	s.Equal("PixelMaster", mods.Mods[0].Author)

	status, body = s.get(b, "/api/mods/1/recommendations")
	s.Equal(http.StatusOK, status)
	s.Contains(body, "Minecraft Shaders")
	s.NotContains(body, "Ultra HD Texture Pack")

	status, _ = s.get(b, "/api/mods/999/recommendations")
	s.Equal(http.StatusNotFound, status)
	status, _ = s.get(b, "/api/mods/x/recommendations")
	s.Equal(http.StatusBadRequest, status)
	status, _ = s.get(b, "/api/nope")
	s.Equal(http.StatusNotFound, status)
}

func (s *ServerTestSuite) TestAdminJobs() {
	anonymous := s.browser()
	status, _ := s.get(anonymous, "/api/admin/jobs")
	s.Equal(http.StatusForbidden, status)

	moderator := s.browser()
	s.login(moderator, "mod@example.com")
	status, _ = s.get(moderator, "/api/admin/jobs")
	s.Equal(http.StatusForbidden, status)

	admin := s.browser()
	s.login(admin, "admin@example.com")
	status, body := s.get(admin, "/api/admin/jobs")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"success":true,"jobs":[]}`, body)
}

func (s *ServerTestSuite) TestLanguage() {
	b := s.browser()
	_, body := s.get(b, "/")
	s.Contains(body, "Каталог")
	s.Contains(body, `lang="ru"`)

	_, body = s.get(b, "/lang/en")
	s.Contains(body, "Catalog")
	s.Contains(body, `lang="en"`)

	status, _ := s.get(b, "/lang/xx")
	s.Equal(http.StatusNotFound, status)
}

func (s *ServerTestSuite) TestAuthRateLimit() {
	s.start(2)
	b := s.browser()
	form := url.Values{"email": {"player@example.com"}, "password": {"wrong"}}

	for range 2 {
		_, body := s.post(b, "/login", form)
		s.Contains(body, "Invalid credentials")
	}
	_, body := s.post(b, "/login", form)
	s.Contains(body, "Слишком много попыток")
	s.NotContains(body, "Invalid credentials")
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
