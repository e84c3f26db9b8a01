package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-mud/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load every bundle and build the world without serving",
	Long:  `Validate loads the configured bundles, checks attribute formulas and builds every area, then exits.`,
	RunE:  runValidate,
}

func runValidate(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadServer(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.Log)
	config.Load(cfg.Game)

	ctx := context.Background()
	state, err := loadWorld(ctx, cfg, nil)
	if err != nil {
		return err
	}
	if err := state.BuildWorld(ctx); err != nil {
		return fmt.Errorf("failed to build world: %w", err)
	}

	fmt.Printf("%d areas, %d npcs, %d items\n",
		len(state.AreaManager.Areas()),
		len(state.MobManager.Mobs()),
		state.ItemManager.Len())
	return nil
}
