package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/modhub/internal/api/auth"
	"github.com/jon4hz/modhub/internal/api/handler"
	"github.com/jon4hz/modhub/internal/api/ratelimit"
	"github.com/jon4hz/modhub/internal/catalog"
	"github.com/jon4hz/modhub/internal/config"
	"github.com/jon4hz/modhub/internal/locale"
	"github.com/jon4hz/modhub/internal/moderation"
	"github.com/jon4hz/modhub/internal/scheduler"
	"github.com/jon4hz/modhub/internal/static"
	"github.com/jon4hz/modhub/pkg/hubapi"
	"github.com/jon4hz/modhub/web/templates"
)

const (
	sessionName     = "modhub_session"
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	authProvider *auth.Provider
	store        *catalog.Store
	moderation   *moderation.Service
	scheduler    *scheduler.Scheduler
	locale       *locale.Bundle
	limiter      *ratelimit.IPRateLimiter
}

// New creates the web server. The scheduler may be nil.
func New(cfg *config.Config, client *hubapi.Client, store *catalog.Store, mod *moderation.Service, sched *scheduler.Scheduler, bundle *locale.Bundle, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.ValidateServe(); err != nil {
		return nil, err
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:          cfg,
		ginEngine:    gin.New(),
		authProvider: auth.New(client, cfg.Gravatar),
		store:        store,
		moderation:   mod,
		scheduler:    sched,
		locale:       bundle,
	}
	if cfg.RateLimit != nil && cfg.RateLimit.AuthPerMinute > 0 {
		s.limiter = ratelimit.PerMinute(cfg.RateLimit.AuthPerMinute)
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
}

func (s *Server) setupRoutes() error {
	tmpl, err := templates.Load()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.ginEngine.SetHTMLTemplate(tmpl)

	s.ginEngine.Use(gin.Recovery(), requestLogger())
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.setupSession()
	s.ginEngine.Use(s.locale.Middleware())

	h := handler.New(s.store, s.moderation, s.locale, s.cfg.SecureCookies)

	s.ginEngine.StaticFS("/static", http.FS(static.FS()))
	s.ginEngine.NoRoute(s.authProvider.LoadSession(), h.NotFound)

	site := s.ginEngine.Group("/")
	site.Use(s.authProvider.LoadSession())

	site.GET("/", h.Home)
	site.GET("/mods/:id", h.ModDetail)
	site.GET("/login", h.Login)
	site.GET("/lang/:code", h.SetLanguage)
	site.POST("/logout", s.authProvider.Logout)

	authForms := site.Group("/")
	if s.limiter != nil {
		authForms.Use(ratelimit.Middleware(s.limiter, s.authProvider.RateLimited))
	}
	authForms.POST("/login", s.authProvider.Login)
	authForms.POST("/register", s.authProvider.Register)

	user := site.Group("/")
	user.Use(s.authProvider.RequireUser())
	user.GET("/upload", h.UploadForm)
	user.POST("/upload", h.Upload)

	mod := site.Group("/moderation")
	mod.Use(s.authProvider.RequireUser(), s.authProvider.RequireModerator())
	mod.GET("", h.Moderation)
	mod.POST("/:id/approve", h.Approve)
	mod.POST("/:id/reject", h.Reject)

	// API routes
	api := site.Group("/api")
	api.GET("/mods", h.Mods)
	api.GET("/mods/:id/recommendations", h.Recommendations)
	api.GET("/me", h.Me)

	admin := api.Group("/admin")
	admin.Use(s.authProvider.RequireAdmin())
	ah := handler.NewAdmin(s.scheduler, s.store.Cache())
	admin.GET("/jobs", ah.GetJobs)
	admin.POST("/jobs/:id/run", ah.RunJob)

	return nil
}

// Handler returns the http handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}
