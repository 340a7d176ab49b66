package searchfilter

import (
	"context"
	"strings"

	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/filter"
	"github.com/samber/lo"
)

// Filter implements the filter.Filterer interface.
// It keeps mods whose title contains the query, ignoring case.
type Filter struct {
	query string
}

var _ filter.Filterer = (*Filter)(nil)

// New creates a new search Filter instance.
func New(query string) *Filter {
	return &Filter{
		query: strings.ToLower(query),
	}
}

// String returns the name of the filter.
func (f *Filter) String() string { return "Search Filter" }

// Apply filters mods by title.
func (f *Filter) Apply(ctx context.Context, mods []models.Mod) ([]models.Mod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.query == "" {
		return mods, nil
	}
	return lo.Filter(mods, func(m models.Mod, _ int) bool {
		return strings.Contains(strings.ToLower(m.Title), f.query)
	}), nil
}
