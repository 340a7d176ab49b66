package cmd

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/modhub/internal/api"
	"github.com/jon4hz/modhub/internal/cache"
	"github.com/jon4hz/modhub/internal/catalog"
	"github.com/jon4hz/modhub/internal/gravatar"
	"github.com/jon4hz/modhub/internal/locale"
	"github.com/jon4hz/modhub/internal/moderation"
	"github.com/jon4hz/modhub/internal/scheduler"
	"github.com/jon4hz/modhub/pkg/hubapi"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ModHub web interface",
	Long:  `Start the ModHub web interface serving the mod catalog, the upload form and the moderation queue.`,
	Example: `modhub serve --config config.yml
modhub serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	if err := gravatar.Validate(cfg.Gravatar); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := hubapi.New(cfg.API)
	catalogCache := cache.NewCatalogCache(cfg.Cache, cfg.Catalog.CacheTTL)
	store := catalog.NewStore(client, catalogCache)

	bundle, err := locale.New(cfg.Locale.Default)
	if err != nil {
		log.Fatalf("failed to load translations: %v", err)
	}

	sched, err := scheduler.New()
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}
	if cfg.Catalog.RefreshInterval > 0 {
		if err := sched.AddCatalogRefresh(store, cfg.Catalog.RefreshInterval); err != nil {
			log.Fatalf("failed to schedule catalog refresh: %v", err)
		}
	} else {
		store.Load(ctx)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler", "error", err)
		}
	}()

	server, err := api.New(cfg, client, store, moderation.New(client, store), sched, bundle, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create web server: %v", err)
	}

	log.Info("modhub started successfully", "listen", cfg.Listen, "cache", cfg.Cache.Type)
	if err := server.Run(ctx); err != nil {
		log.Error("web server error", "error", err)
		return
	}
	log.Info("shutting down gracefully...")
}
