package categoryfilter

import (
	"context"

	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/filter"
	"github.com/samber/lo"
)

// Filter implements the filter.Filterer interface.
type Filter struct {
	category string
}

var _ filter.Filterer = (*Filter)(nil)

// New creates a new category Filter instance. An empty category or filter.All keeps every mod.
func New(category string) *Filter {
	return &Filter{
		category: category,
	}
}

// String returns the name of the filter.
func (f *Filter) String() string { return "Category Filter" }

// Apply keeps mods in the selected category.
func (f *Filter) Apply(ctx context.Context, mods []models.Mod) ([]models.Mod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.IsAll(f.category) {
		return mods, nil
	}
	return lo.Filter(mods, func(m models.Mod, _ int) bool {
		return m.Category == f.category
	}), nil
}
