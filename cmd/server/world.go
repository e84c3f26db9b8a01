package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-mud/internal/bundles"
	"github.com/KirkDiggler/rpg-mud/internal/config"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/game"
	"github.com/KirkDiggler/rpg-mud/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-mud/internal/repositories/characters"
)

// loadWorld creates the game state and registers every configured bundle.
func loadWorld(ctx context.Context, cfg config.Server, players characters.Repository) (*game.State, error) {
	state, err := game.NewState(&game.StateConfig{
		Clock:           clock.New(),
		Roller:          dice.DefaultRoller,
		Players:         players,
		PlaceholderRoom: cfg.PlaceholderRoom,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create game state")
	}

	loader, err := bundles.NewLoader(&bundles.LoaderConfig{
		Root:     cfg.BundlesPath,
		Bundles:  cfg.Bundles,
		Registry: state.Registry(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bundle loader")
	}

	res, err := loader.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load bundles")
	}

	slog.InfoContext(ctx, "bundles loaded",
		"areas", len(res.Areas),
		"attributes", res.Attributes,
		"effects", res.Effects,
		"behaviors", res.Behaviors,
		"items", res.Items,
		"npcs", res.Npcs,
		"rooms", res.Rooms)
	return state, nil
}
