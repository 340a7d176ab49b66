package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndPop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("test", cookie.NewStore([]byte("test-secret"))))

	router.POST("/add", func(c *gin.Context) {
		Success(c, "Saved", "all good")
		Error(c, "Broken", "")
		c.Status(http.StatusNoContent)
	})
	var got []Flash
	router.GET("/pop", func(c *gin.Context) {
		got = Pop(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add", nil))
	cookies := latestCookies(w)
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Len(t, got, 2)
	assert.Equal(t, Flash{Kind: KindSuccess, Title: "Saved", Message: "all good"}, got[0])
	assert.Equal(t, KindError, got[1].Kind)

	// flashes are consumed by the first read
	req = httptest.NewRequest(http.MethodGet, "/pop", nil)
	for _, c := range latestCookies(w) {
		req.AddCookie(c)
	}
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, got)
}

// latestCookies keeps the last value of every cookie, like a browser does
// when a response saves the session more than once.
func latestCookies(w *httptest.ResponseRecorder) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, c := range w.Result().Cookies() {
		if _, ok := byName[c.Name]; !ok {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	cookies := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		cookies = append(cookies, byName[name])
	}
	return cookies
}
