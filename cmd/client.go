package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/modhub/internal/auth"
	"github.com/jon4hz/modhub/internal/cache"
	"github.com/jon4hz/modhub/internal/catalog"
	"github.com/jon4hz/modhub/internal/config"
	"github.com/jon4hz/modhub/internal/database"
	"github.com/jon4hz/modhub/internal/moderation"
	"github.com/jon4hz/modhub/internal/session"
	"github.com/jon4hz/modhub/pkg/hubapi"
)

func loadConfig() *config.Config {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if rootCmdPersistentFlags.LogLevel == "" {
		setLogLevel(cfg.LogLevel)
	}
	return cfg
}

// cli bundles what the command line client needs to talk to the marketplace.
type cli struct {
	cfg        *config.Config
	db         *database.Client
	session    *auth.Session
	store      *catalog.Store
	moderation *moderation.Service
}

// newCLI opens the local session database and verifies a stored token once.
func newCLI(ctx context.Context) (*cli, error) {
	cfg := loadConfig()

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	client := hubapi.New(cfg.API)
	store := catalog.NewStore(client, cache.NewCatalogCache(cfg.Cache, cfg.Catalog.CacheTTL))

	s := auth.NewSession(session.NewDB(db), client)
	s.Verify(ctx)

	return &cli{
		cfg:        cfg,
		db:         db,
		session:    s,
		store:      store,
		moderation: moderation.New(client, store),
	}, nil
}

func (c *cli) Close() {
	if err := c.db.Close(); err != nil {
		log.Error("failed to close database", "error", err)
	}
}
