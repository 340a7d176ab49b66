package gamefilter

import (
	"context"

	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/filter"
	"github.com/samber/lo"
)

// Filter implements the filter.Filterer interface.
type Filter struct {
	game string
}

var _ filter.Filterer = (*Filter)(nil)

// New creates a new game Filter instance. An empty game or filter.All keeps every mod.
func New(game string) *Filter {
	return &Filter{
		game: game,
	}
}

// String returns the name of the filter.
func (f *Filter) String() string { return "Game Filter" }

// Apply keeps mods made for the selected game.
func (f *Filter) Apply(ctx context.Context, mods []models.Mod) ([]models.Mod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.IsAll(f.game) {
		return mods, nil
	}
	return lo.Filter(mods, func(m models.Mod, _ int) bool {
		return m.Game == f.game
	}), nil
}
