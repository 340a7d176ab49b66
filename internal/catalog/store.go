package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/cache"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
)

// ErrModNotFound is returned when a mod is not part of the loaded catalog.
var ErrModNotFound = errors.New("mod not found")

// fetchTimeout bounds a shared fetch, which no longer follows the caller's cancellation.
const fetchTimeout = time.Minute

// Lister is the part of the marketplace API the store reads from.
type Lister interface {
	ListMods(ctx context.Context, token string, status models.ModStatus) ([]models.Mod, error)
}

// Store holds the working set of approved mods.
type Store struct {
	client Lister
	cache  *cache.CatalogCache
	group  singleflight.Group

	mu       sync.RWMutex
	mods     []models.Mod
	loaded   bool
	fallback bool
}

// NewStore creates a catalog store. The cache may be nil.
func NewStore(client Lister, cache *cache.CatalogCache) *Store {
	return &Store{
		client: client,
		cache:  cache,
	}
}

// Load fetches the approved mods and makes them the working set.
// If the endpoint fails, the static fixture becomes the working set instead.
// A cancelled caller keeps an already loaded working set.
func (s *Store) Load(ctx context.Context) []models.Mod {
	mods, err := s.List(ctx, "", models.ModStatusApproved)
	if err != nil {
		if ctx.Err() != nil && s.isLoaded() {
			log.Debug("Catalog load cancelled, keeping current mods", "error", err)
			return s.snapshot()
		}
		log.Warn("Failed to load mods, using fallback catalog", "error", err)
		s.replace(Fixture(), true)
		return s.snapshot()
	}

	// the endpoint may ignore the status filter, never show anything but approved mods
	mods = lo.Filter(mods, func(m models.Mod, _ int) bool {
		return m.Status == "" || m.Status == models.ModStatusApproved
	})
	s.replace(mods, false)
	return s.snapshot()
}

// List returns the mods with the given status, from the cache when possible.
// Concurrent calls for the same status share one request. The shared request is detached
// from the cancellation of whichever caller started it. A cancelled caller stops waiting
// and gets its context error.
func (s *Store) List(ctx context.Context, token string, status models.ModStatus) ([]models.Mod, error) {
	if s.cache != nil {
		if mods, ok := s.cache.GetMods(ctx, status); ok {
			log.Debug("Using cached mods", "status", status, "count", len(mods))
			return mods, nil
		}
	}

	ch := s.group.DoChan(string(status), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		mods, err := s.client.ListMods(fetchCtx, token, status)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.SetMods(fetchCtx, status, mods)
		}
		return mods, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]models.Mod)), nil
	}
}

// Invalidate drops the cached lists for the given statuses, all of them if none are given.
func (s *Store) Invalidate(ctx context.Context, statuses ...models.ModStatus) {
	if s.cache == nil {
		return
	}
	if len(statuses) == 0 {
		statuses = []models.ModStatus{models.ModStatusApproved, models.ModStatusPending, models.ModStatusRejected}
	}
	s.cache.Invalidate(ctx, statuses...)
}

// Mods returns the working set, loading it first if necessary.
func (s *Store) Mods(ctx context.Context) []models.Mod {
	if !s.isLoaded() {
		return s.Load(ctx)
	}
	return s.snapshot()
}

// Query returns the mods of the working set matching q.
func (s *Store) Query(ctx context.Context, q Query) ([]models.Mod, error) {
	return q.Apply(ctx, s.Mods(ctx))
}

// Get returns the mod with the given id from the working set.
func (s *Store) Get(ctx context.Context, id int64) (models.Mod, error) {
	mod, ok := lo.Find(s.Mods(ctx), func(m models.Mod) bool { return m.ID == id })
	if !ok {
		return models.Mod{}, ErrModNotFound
	}
	return mod, nil
}

// Recommendations returns the mods related to the mod with the given id.
func (s *Store) Recommendations(ctx context.Context, id int64) ([]models.Mod, error) {
	mod, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return Recommend(mod, s.Mods(ctx)), nil
}

// FromFallback reports whether the working set is the static fixture.
func (s *Store) FromFallback() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}

// replace swaps the working set. The last completed load wins.
func (s *Store) replace(mods []models.Mod, fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mods = mods
	s.loaded = true
	s.fallback = fallback
}

// Cache returns the catalog cache, nil when the store runs without one.
func (s *Store) Cache() *cache.CatalogCache {
	return s.cache
}

func (s *Store) isLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) snapshot() []models.Mod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.mods)
}
