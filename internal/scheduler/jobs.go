package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/catalog"
)

// CatalogRefreshJobID identifies the background catalog refresh.
const CatalogRefreshJobID = "catalog-refresh"

var errFallback = errors.New("mods endpoint unavailable, serving fallback catalog")

// AddCatalogRefresh registers a job reloading the approved catalog every interval.
func (s *Scheduler) AddCatalogRefresh(store *catalog.Store, interval time.Duration) error {
	return s.AddSingletonJob(
		CatalogRefreshJobID,
		"Catalog refresh",
		"Reloads the approved mods from the mods endpoint",
		interval.String(),
		gocron.DurationJob(interval),
		RefreshCatalog(store),
		true,
	)
}

// RefreshCatalog returns a job function that drops the cached catalog and loads it again.
func RefreshCatalog(store *catalog.Store) JobFunc {
	return func(ctx context.Context) error {
		store.Invalidate(ctx, models.ModStatusApproved)
		store.Load(ctx)
		if store.FromFallback() {
			return errFallback
		}
		return nil
	}
}
