// Package main is the entry point for the game server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-mud/cmd/server/client"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rpg-mud",
	Short: "RPG MUD game server",
	Long:  `RPG MUD runs a tick-driven multi-user world loaded from YAML and Lua bundles.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "path to the server config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
