package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinepoll/cinepoll/internal/config"
)

var version = "dev"

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "cinepoll",
	Short: "Admin CLI for the cinepoll Telegram bot",
	Long: `cinepoll - admin CLI for the cinepoll Telegram bot

Inspect the movie cache and stored polls, render result charts, and run
the recommendation pipeline without Telegram.

Run 'cinepolld' to start the bot daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (searched for when empty)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("cinepoll {{.Version}}\n")
}

// loadConfig resolves the config path (flag, then search order) and loads
// it without credential validation; subcommands check what they need.
func loadConfig() (*config.Config, error) {
	path := configFlag
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = discovered
	}
	cfg, err := config.LoadWithoutValidation(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
