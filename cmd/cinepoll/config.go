package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cinepoll/cinepoll/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without starting the bot.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configFlag
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return err
		}
		path = discovered
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigErrors(e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Println("Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Printf("  - %s\n", m)
		}
		fmt.Println()
	}

	if len(e.Errors) > 0 {
		fmt.Println("Validation errors:")
		for _, err := range e.Errors {
			fmt.Printf("  - %s\n", err)
		}
		fmt.Println()
	}
}

func printConfigSummary(cfg *config.Config) {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Database:   %s\n", cfg.Poll.Database)
	fmt.Printf("  Cache:      %s (threshold %d)\n", cfg.Cache.Path, cfg.Cache.Threshold)
	fmt.Printf("  TMDB:       %s (max pages %d)\n", cfg.TMDB.BaseURL, cfg.TMDB.MaxPages)
	fmt.Printf("  Poll:       size %d, session TTL %s, keep %s\n",
		cfg.Poll.Size, cfg.Poll.SessionTTL.Std(), cfg.Poll.KeepFor.Std())
	fmt.Printf("  Log level:  %s\n", cfg.Log.Level)
}
