package filter

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/modhub/internal/api/models"
)

// All is the facet value that selects every game or category.
const All = "all"

// IsAll reports whether a facet value places no restriction.
func IsAll(value string) bool {
	return value == "" || value == All
}

// Filterer defines the interface for mod filters.
// Every filter keeps the relative order of the mods it lets through.
type Filterer interface {
	fmt.Stringer
	// Apply filters mods based on specific criteria and returns the filtered list.
	Apply(context.Context, []models.Mod) ([]models.Mod, error)
}

// Filter applies all provided filters sequentially to mods.
type Filter struct {
	filters []Filterer
}

// New creates a new Filter instance with the given filters.
func New(filters ...Filterer) *Filter {
	return &Filter{
		filters: filters,
	}
}

// ApplyAll applies all filters sequentially to the provided mods.
func (f *Filter) ApplyAll(ctx context.Context, mods []models.Mod) ([]models.Mod, error) {
	var err error
	filtered := mods

	for _, filter := range f.filters {
		preFilterCount := len(filtered)
		filtered, err = filter.Apply(ctx, filtered)
		if err != nil {
			log.Error("Failed to apply filter.", "filter", filter.String(), "error", err)
			return nil, err
		}
		log.Debug("Filter applied.", "filter", filter.String(), "remaining_mods", len(filtered), "filtered_out", preFilterCount-len(filtered))
	}

	return filtered, nil
}
