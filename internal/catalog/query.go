package catalog

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"

	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/filter"
	categoryfilter "github.com/jon4hz/modhub/internal/filter/category_filter"
	gamefilter "github.com/jon4hz/modhub/internal/filter/game_filter"
	searchfilter "github.com/jon4hz/modhub/internal/filter/search_filter"
	"github.com/samber/lo"
)

// MaxRecommendations is the number of related mods shown next to a mod.
const MaxRecommendations = 3

// Query selects mods from the catalog. Empty Game or Category, or filter.All, select everything.
type Query struct {
	Search   string
	Game     string
	Category string
}

// Filter builds the filter pipeline for the query.
func (q Query) Filter() *filter.Filter {
	return filter.New(
		searchfilter.New(q.Search),
		gamefilter.New(q.Game),
		categoryfilter.New(q.Category),
	)
}

// Apply returns the mods matching the query in source order.
func (q Query) Apply(ctx context.Context, mods []models.Mod) ([]models.Mod, error) {
	return q.Filter().ApplyAll(ctx, mods)
}

// Recommend returns up to MaxRecommendations mods sharing the game or the category of mod,
// in source order and never including mod itself.
func Recommend(mod models.Mod, all []models.Mod) []models.Mod {
	related := lo.Filter(all, func(m models.Mod, _ int) bool {
		return m.ID != mod.ID && (m.Game == mod.Game || m.Category == mod.Category)
	})
	if len(related) > MaxRecommendations {
		related = related[:MaxRecommendations]
	}
	return related
}

// GamesOf returns the known games followed by any other game present in mods.
func GamesOf(mods []models.Mod) []string {
	return facet(Games, lo.Map(mods, func(m models.Mod, _ int) string { return m.Game }))
}

// CategoriesOf returns the known categories followed by any other category present in mods.
func CategoriesOf(mods []models.Mod) []string {
	return facet(Categories, lo.Map(mods, func(m models.Mod, _ int) string { return m.Category }))
}

func facet(known, seen []string) []string {
	extra := lo.Uniq(lo.Filter(seen, func(v string, _ int) bool {
		return v != "" && !slices.Contains(known, v)
	}))
	return append(slices.Clone(known), extra...)
}

// ParseID parses a mod id as given in a URL or on the command line.
func ParseID(s string) (int64, error) {
	u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid mod id %q: %w", s, err)
	}
	id, err := safecast.Convert[int64](u)
	if err != nil {
		return 0, fmt.Errorf("invalid mod id %q: %w", s, err)
	}
	return id, nil
}
