package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/cinepoll/cinepoll/internal/bot"
	"github.com/cinepoll/cinepoll/internal/chart"
	"github.com/cinepoll/cinepoll/internal/config"
	"github.com/cinepoll/cinepoll/internal/migrations"
	"github.com/cinepoll/cinepoll/internal/movies"
	"github.com/cinepoll/cinepoll/internal/poll"
	"github.com/cinepoll/cinepoll/internal/tmdb"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runBot(configPath string) error {
	// Optional .env feeds the ${TELEGRAM_BOT_TOKEN}/${TMDB_API_KEY} config
	// substitutions.
	_ = godotenv.Load()

	if configPath == "" {
		discovered, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = discovered
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	// Ensure data directories exist
	for _, dir := range []string{filepath.Dir(cfg.Poll.Database), filepath.Dir(cfg.Cache.Path)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Poll.Database)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Recommendation pipeline ===
	clock := clockwork.NewRealClock()
	windows := movies.NewWindows(clock)

	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithMaxPages(cfg.TMDB.MaxPages),
		tmdb.WithLogger(logger),
	)
	source := movies.NewTMDBSource(tmdbClient, logger)
	cache := movies.NewStore(cfg.Cache.Path, logger)
	service := movies.NewService(cache, source, windows, cfg.Cache.Threshold, logger)

	// === Telegram ===
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	b, err := bot.New(bot.Deps{
		API:         api,
		Recommender: service,
		Windows:     windows,
		Polls:       poll.NewStore(db),
		Charts:      chart.NewRenderer(),
		Sessions:    bot.NewSessions(clock, cfg.Poll.SessionTTL.Std()),
		Clock:       clock,
		Logger:      logger,
	}, bot.Config{
		PollQuestion: cfg.Poll.Question,
		PollSize:     cfg.Poll.Size,
		KeepPolls:    cfg.Poll.KeepFor.Std(),
	})
	if err != nil {
		return err
	}

	logger.Info("bot starting",
		"username", api.Self.UserName,
		"config", configPath,
		"database", cfg.Poll.Database,
		"cache", cfg.Cache.Path,
		"log_level", cfg.Log.Level,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("bot stopped")
	return nil
}
