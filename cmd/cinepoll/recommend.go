package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/cinepoll/cinepoll/internal/movies"
	"github.com/cinepoll/cinepoll/internal/prefs"
	"github.com/cinepoll/cinepoll/internal/tmdb"
)

var (
	recommendSize    int
	recommendVerbose bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <language> <country>",
	Short: "Run the recommendation pipeline once",
	Long: `Runs the cache-first pipeline for a language/country pair and prints
the ranked picks without talking to Telegram. Accepts the same free-form
input the bot does ("English", "en", "USA", "us").`,
	Args: cobra.ExactArgs(2),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVar(&recommendSize, "size", 4, "How many picks to print")
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Log pipeline steps to stderr")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	lang, err := prefs.ResolveLanguage(args[0])
	if err != nil {
		return fmt.Errorf("language: %w", err)
	}
	country, err := prefs.ResolveCountry(args[1])
	if err != nil {
		return fmt.Errorf("country: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is not set (export TMDB_API_KEY or edit the config)")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if recommendVerbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	windows := movies.NewWindows(clockwork.NewRealClock())
	client := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithMaxPages(cfg.TMDB.MaxPages),
		tmdb.WithLogger(logger),
	)
	source := movies.NewTMDBSource(client, logger)
	store := movies.NewStore(cfg.Cache.Path, logger)
	service := movies.NewService(store, source, windows, cfg.Cache.Threshold, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	window := windows.Primary()
	scope := movies.Scope{Language: lang.Code, Country: country.Code}
	picks, err := service.Recommend(ctx, scope, recommendSize, func(have []movies.Movie, next movies.Window) {
		fmt.Fprintf(os.Stderr, "only %d movies in %s, widening to %s\n", len(have), window.Label(), next.Label())
		window = next
	})
	if err != nil {
		return err
	}

	fmt.Printf("Top movies released in %s for %s from %s:\n", window.Label(), lang.Name, country.Name)
	for i, m := range picks {
		fmt.Printf("%2d. %-40s %.1f  %s\n", i+1, m.Title, m.Rating, m.Released.Format("2006-01-02"))
	}
	return nil
}
